package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bhraman/apperr"
	"bhraman/models"
)

// Home stores the singleton as JSON, which also gives deep copies for free.
type Home struct {
	mu  sync.Mutex
	doc []byte
}

func NewHome() *Home {
	return &Home{}
}

func decodeHome(raw []byte) (*models.HomeConfig, error) {
	var cfg models.HomeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode home config: %w", err)
	}
	cfg.ID = models.HomeConfigKey
	return &cfg, nil
}

func (s *Home) Get(_ context.Context) (*models.HomeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, apperr.NotFound("home config")
	}
	return decodeHome(s.doc)
}

func (s *Home) Insert(_ context.Context, c *models.HomeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return apperr.ConflictError{Resource: "home config", Msg: "already exists"}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.doc = raw
	return nil
}

// SetSections replaces whole sections, as $set does.
func (s *Home) SetSections(_ context.Context, sections map[string]any, updatedAt time.Time) (*models.HomeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, apperr.NotFound("home config")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(s.doc, &fields); err != nil {
		return nil, err
	}
	for k, v := range sections {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode section %s: %w", k, err)
		}
		fields[k] = raw
	}
	stamp, err := json.Marshal(updatedAt)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = stamp

	doc, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return decodeHome(doc)
}

// Cache is an in-process stand-in for the redis read cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	raw     []byte
	expires time.Time
}

func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}, now: time.Now}
}

func (c *Cache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || c.now().After(e.expires) {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{raw: raw, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
