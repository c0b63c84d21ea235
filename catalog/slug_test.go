package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Kerala Backwaters", "kerala-backwaters"},
		{"  Goa -- Beach & Sun!  ", "goa-beach-sun"},
		{"Café Trail, Sikkim", "cafe-trail-sikkim"},
		{"7 Days in Ladakh", "7-days-in-ladakh"},
		{"Leh/Ladakh (Summer) 2025", "leh-ladakh-summer-2025"},
		{"हिमालय", "package"},
		{"", "package"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"goa": true, "goa-1": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := UniqueSlug(context.Background(), "goa", exists)
	if err != nil || got != "goa-2" {
		t.Fatalf("got %q, %v; want goa-2", got, err)
	}
	got, _ = UniqueSlug(context.Background(), "kerala", exists)
	if got != "kerala" {
		t.Fatalf("free slug changed to %q", got)
	}

	boom := errors.New("db down")
	if _, err := UniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
