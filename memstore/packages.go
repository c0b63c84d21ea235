package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"bhraman/apperr"
	"bhraman/catalog"
	"bhraman/models"
)

type Packages struct {
	mu   sync.RWMutex
	byID map[string]*models.Package
}

func NewPackages() *Packages {
	return &Packages{byID: map[string]*models.Package{}}
}

func clonePackage(p *models.Package) *models.Package {
	c := *p
	if p.DiscountedPrice != nil {
		d := *p.DiscountedPrice
		c.DiscountedPrice = &d
	}
	c.Images = slices.Clone(p.Images)
	c.Inclusions = slices.Clone(p.Inclusions)
	c.Exclusions = slices.Clone(p.Exclusions)
	c.Itinerary = slices.Clone(p.Itinerary)
	return &c
}

func (s *Packages) Insert(_ context.Context, p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.byID {
		if other.ID == p.ID || other.Slug == p.Slug {
			return apperr.ConflictError{Resource: "package", Msg: "slug already taken"}
		}
	}
	s.byID[p.ID] = clonePackage(p)
	return nil
}

func (s *Packages) FindByID(_ context.Context, id string) (*models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("package")
	}
	return clonePackage(p), nil
}

func (s *Packages) FindBySlug(_ context.Context, slug string) (*models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byID {
		if p.Slug == slug {
			return clonePackage(p), nil
		}
	}
	return nil, apperr.NotFound("package")
}

func (s *Packages) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.FindBySlug(ctx, slug)
	if apperr.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *Packages) Replace(_ context.Context, p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return apperr.NotFound("package")
	}
	s.byID[p.ID] = clonePackage(p)
	return nil
}

func (s *Packages) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperr.NotFound("package")
	}
	delete(s.byID, id)
	return nil
}

func (s *Packages) List(_ context.Context, f catalog.Filter) ([]models.Package, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Package
	for _, p := range s.byID {
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if !matchesAny(f.Search, p.Title, p.Location, p.ShortDescription) {
			continue
		}
		out = append(out, *clonePackage(p))
	}
	newestFirst(out, func(p models.Package) time.Time { return p.CreatedAt })
	return page(out, f.QueryOptions), int64(len(out)), nil
}

func (s *Packages) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}
