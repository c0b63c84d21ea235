package catalog

import (
	"context"
	"log"
	"strings"
	"time"

	"bhraman/apperr"
	"bhraman/models"
	"bhraman/utils"
)

// slug selection retries when a concurrent create wins the unique index
const maxSlugRetries = 3

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Input is the writable part of a package. Nil fields are left unchanged
// on update. A zero discountedPrice removes the discount.
type Input struct {
	Title            *string               `json:"title"`
	Description      *string               `json:"description"`
	ShortDescription *string               `json:"shortDescription"`
	Location         *string               `json:"location"`
	Duration         *int                  `json:"duration"`
	Price            *float64              `json:"price"`
	DiscountedPrice  *float64              `json:"discountedPrice"`
	MaxGroupSize     *int                  `json:"maxGroupSize"`
	Images           []string              `json:"images"`
	Inclusions       []string              `json:"inclusions"`
	Exclusions       []string              `json:"exclusions"`
	Itinerary        []models.ItineraryDay `json:"itinerary"`
	Featured         *bool                 `json:"featured"`
}

func (in Input) applyTo(p *models.Package) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ShortDescription != nil {
		p.ShortDescription = *in.ShortDescription
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.Duration != nil {
		p.Duration = *in.Duration
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountedPrice != nil {
		if *in.DiscountedPrice == 0 {
			p.DiscountedPrice = nil
		} else {
			d := *in.DiscountedPrice
			p.DiscountedPrice = &d
		}
	}
	if in.MaxGroupSize != nil {
		p.MaxGroupSize = *in.MaxGroupSize
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Inclusions != nil {
		p.Inclusions = in.Inclusions
	}
	if in.Exclusions != nil {
		p.Exclusions = in.Exclusions
	}
	if in.Itinerary != nil {
		p.Itinerary = in.Itinerary
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
}

func validate(p *models.Package) error {
	switch {
	case p.Title == "":
		return apperr.Invalid("title", "is required")
	case p.Duration < 1:
		return apperr.Invalid("duration", "must be at least 1 day")
	case p.Price < 0:
		return apperr.Invalid("price", "must not be negative")
	case p.MaxGroupSize < 1:
		return apperr.Invalid("maxGroupSize", "must be at least 1")
	}
	if p.DiscountedPrice != nil {
		if *p.DiscountedPrice < 0 {
			return apperr.Invalid("discountedPrice", "must not be negative")
		}
		if *p.DiscountedPrice > p.Price {
			return apperr.Invalid("discountedPrice", "must not exceed price")
		}
	}
	for i, day := range p.Itinerary {
		if day.Day < 1 {
			return apperr.Invalid("itinerary", "day numbers start at 1")
		}
		if i > 0 && day.Day <= p.Itinerary[i-1].Day {
			return apperr.Invalid("itinerary", "days must be in increasing order")
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Package, error) {
	now := s.now()
	p := &models.Package{
		ID:         utils.GetUUID(),
		Images:     []string{},
		Inclusions: []string{},
		Exclusions: []string{},
		Itinerary:  []models.ItineraryDay{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.applyTo(p)
	if err := validate(p); err != nil {
		return nil, err
	}

	base := Slugify(p.Title)
	var err error
	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		p.Slug, err = UniqueSlug(ctx, base, s.store.SlugExists)
		if err != nil {
			return nil, err
		}
		err = s.store.Insert(ctx, p)
		if err == nil || !apperr.IsConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[catalog] created package id=%s slug=%s", p.ID, p.Slug)
	return p, nil
}

// Update applies a partial patch. The slug is kept so published links stay valid.
func (s *Service) Update(ctx context.Context, id string, in Input) (*models.Package, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(p)
	if err := validate(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()
	if err := s.store.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) SetFeatured(ctx context.Context, id string, featured bool) (*models.Package, error) {
	return s.Update(ctx, id, Input{Featured: &featured})
}

// Delete removes the package. Bookings keep their dangling packageId.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[catalog] deleted package id=%s", id)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Package, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Package, error) {
	return s.store.FindBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Package, int64, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
