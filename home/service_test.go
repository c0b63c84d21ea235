package home_test

import (
	"context"
	"encoding/json"
	"testing"

	"bhraman/apperr"
	"bhraman/home"
	"bhraman/memstore"
	"bhraman/models"
)

func TestGetCreatesDefaultOnce(t *testing.T) {
	store := memstore.NewHome()
	svc := home.NewService(store, nil, nil)
	ctx := context.Background()

	if _, err := store.Get(ctx); !apperr.IsNotFound(err) {
		t.Fatalf("store should start empty, got %v", err)
	}
	first, err := svc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.SiteSettings.SiteName != "Bhraman" {
		t.Fatalf("default = %+v", first.SiteSettings)
	}
	second, err := svc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatal("second read replaced the document")
	}
}

func TestPatchMergesOnlyProvidedSections(t *testing.T) {
	svc := home.NewService(memstore.NewHome(), nil, nil)
	ctx := context.Background()

	before, err := svc.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}

	body := map[string]json.RawMessage{"seo": json.RawMessage(`{"title":"New"}`)}
	after, err := svc.Patch(ctx, body)
	if err != nil {
		t.Fatal(err)
	}
	if after.SEO.Title != "New" {
		t.Fatalf("seo.title = %q", after.SEO.Title)
	}
	// fields of the patched section that were not sent survive
	if after.SEO.Description != before.SEO.Description {
		t.Fatalf("seo.description lost: %q", after.SEO.Description)
	}
	if after.HeroSection != before.HeroSection {
		t.Fatalf("heroSection changed: %+v", after.HeroSection)
	}
	if after.ContactSection != before.ContactSection || after.FeaturedPackagesSection != before.FeaturedPackagesSection {
		t.Fatal("untouched sections changed")
	}

	stored, _ := svc.Get(ctx)
	if stored.SEO.Title != "New" || stored.HeroSection != before.HeroSection {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestPatchRejects(t *testing.T) {
	svc := home.NewService(memstore.NewHome(), nil, nil)
	ctx := context.Background()

	if _, err := svc.Patch(ctx, map[string]json.RawMessage{"banner": json.RawMessage(`{}`)}); !apperr.IsValidation(err) {
		t.Fatalf("unknown-only body: %v", err)
	}
	if _, err := svc.Patch(ctx, map[string]json.RawMessage{"heroSection": json.RawMessage(`"text"`)}); !apperr.IsValidation(err) {
		t.Fatalf("non-object section: %v", err)
	}
	if _, err := svc.Patch(ctx, map[string]json.RawMessage{"seo": json.RawMessage(`null`)}); !apperr.IsValidation(err) {
		t.Fatalf("null section: %v", err)
	}

	// unknown keys are ignored next to a known one
	cfg, err := svc.Patch(ctx, map[string]json.RawMessage{
		"banner":      json.RawMessage(`{}`),
		"heroSection": json.RawMessage(`{"title":"Monsoon sale"}`),
	})
	if err != nil || cfg.HeroSection.Title != "Monsoon sale" {
		t.Fatalf("patch = %+v, %v", cfg, err)
	}
}

func TestPublicUsesCacheAndPatchInvalidates(t *testing.T) {
	cache := memstore.NewCache()
	svc := home.NewService(memstore.NewHome(), cache, nil)
	ctx := context.Background()

	if _, err := svc.Public(ctx); err != nil {
		t.Fatal(err)
	}
	var cached models.HomeConfig
	if hit, _ := cache.GetJSON(ctx, "bhraman:homeconfig", &cached); !hit {
		t.Fatal("public read did not populate the cache")
	}

	if _, err := svc.Patch(ctx, map[string]json.RawMessage{"heroSection": json.RawMessage(`{"title":"Fresh"}`)}); err != nil {
		t.Fatal(err)
	}
	if hit, _ := cache.GetJSON(ctx, "bhraman:homeconfig", &cached); hit {
		t.Fatal("patch did not invalidate the cache")
	}
	cfg, err := svc.Public(ctx)
	if err != nil || cfg.HeroSection.Title != "Fresh" {
		t.Fatalf("public = %+v, %v", cfg, err)
	}
}
