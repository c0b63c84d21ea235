package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bhraman/apperr"
)

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=500&search=%20goa%20", nil)
	o := ParseQueryOptions(r)
	if o.Page != 3 || o.Limit != maxLimit || o.Search != "goa" {
		t.Fatalf("unexpected options %+v", o)
	}
	if o.Skip() != int64(2*maxLimit) {
		t.Fatalf("unexpected skip %d", o.Skip())
	}

	d := ParseQueryOptions(httptest.NewRequest(http.MethodGet, "/?page=-1&limit=x", nil))
	if d.Page != 1 || d.Limit != 10 {
		t.Fatalf("unexpected defaults %+v", d)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, 21, 2, 10)
	if p.Pagination.Pages != 3 || p.Data == nil {
		t.Fatalf("unexpected page %+v", p)
	}
	if NewPage([]int{}, 0, 1, 10).Pagination.Pages != 0 {
		t.Fatal("empty result should have zero pages")
	}
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"9876543210", "+91 98765-43210", "(022) 2345 6789"} {
		if !ValidPhone(ok) {
			t.Errorf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"", "12345", "98765-43", "phone"} {
		if ValidPhone(bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.Invalid("status", "unknown value"))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "status: unknown value") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperr.Upstream("find", errors.New("db down")))
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("upstream error leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ A int }
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad"))
	if err := DecodeJSON(r, &dst); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
