package home

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"bhraman/apperr"
	"bhraman/models"
	"bhraman/mq"
)

const (
	cacheKey = "bhraman:homeconfig"
	cacheTTL = 5 * time.Minute
)

// Cache is the read-through cache in front of the public endpoint.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	store  Store
	cache  Cache
	events mq.Publisher
	now    func() time.Time
}

// NewService wires the store. cache and events may be nil.
func NewService(store Store, cache Cache, events mq.Publisher) *Service {
	return &Service{store: store, cache: cache, events: events, now: time.Now}
}

// Get returns the singleton, inserting the default document on first access.
func (s *Service) Get(ctx context.Context) (*models.HomeConfig, error) {
	cfg, err := s.store.Get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	def := models.DefaultHomeConfig(s.now())
	if err := s.store.Insert(ctx, &def); err != nil {
		if apperr.IsConflict(err) {
			return s.store.Get(ctx)
		}
		return nil, err
	}
	log.Printf("[home] default config created")
	return &def, nil
}

// Public serves the config through the cache. Cache failures fall back to
// the store.
func (s *Service) Public(ctx context.Context) (*models.HomeConfig, error) {
	if s.cache != nil {
		var cfg models.HomeConfig
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cfg)
		if err != nil {
			log.Printf("[home] cache read failed: %v", err)
		}
		if hit {
			return &cfg, nil
		}
	}
	cfg, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, cfg, cacheTTL); err != nil {
			log.Printf("[home] cache write failed: %v", err)
		}
	}
	return cfg, nil
}

// sectionTargets maps each editable top-level key to its field in c.
func sectionTargets(c *models.HomeConfig) map[string]any {
	return map[string]any{
		"siteSettings":            &c.SiteSettings,
		"heroSection":             &c.HeroSection,
		"featuredPackagesSection": &c.FeaturedPackagesSection,
		"aboutSection":            &c.AboutSection,
		"contactSection":          &c.ContactSection,
		"seo":                     &c.SEO,
		"testimonialsSection":     &c.TestimonialsSection,
	}
}

// Patch merges the provided sections into the stored document. Each
// section is decoded over its current value, so a partial section keeps
// its other fields; sections not in the body are not written at all.
// Unknown keys are ignored.
func (s *Service) Patch(ctx context.Context, body map[string]json.RawMessage) (*models.HomeConfig, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	targets := sectionTargets(cur)
	sections := map[string]any{}
	for key, raw := range body {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, apperr.Invalid(key, "must be an object")
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, apperr.Invalid(key, "must be an object matching the section layout")
		}
		sections[key] = target
	}
	if len(sections) == 0 {
		return nil, apperr.Invalid("", "no known section in request body")
	}

	cfg, err := s.store.SetSections(ctx, sections, s.now())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey); err != nil {
			log.Printf("[home] cache invalidate failed: %v", err)
		}
	}

	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mq.Emit(ctx, s.events, mq.Event{Type: mq.HomeConfigUpdated, EntityID: models.HomeConfigKey, Payload: keys})
	return cfg, nil
}
