package models

import "time"

// Package is a sellable travel package.
type Package struct {
	ID               string         `json:"id" bson:"id"`
	Slug             string         `json:"slug" bson:"slug"`
	Title            string         `json:"title" bson:"title"`
	Description      string         `json:"description" bson:"description"`
	ShortDescription string         `json:"shortDescription" bson:"shortDescription"`
	Location         string         `json:"location" bson:"location"`
	Duration         int            `json:"duration" bson:"duration"` // days
	Price            float64        `json:"price" bson:"price"`
	DiscountedPrice  *float64       `json:"discountedPrice,omitempty" bson:"discountedPrice,omitempty"`
	MaxGroupSize     int            `json:"maxGroupSize" bson:"maxGroupSize"`
	Images           []string       `json:"images" bson:"images"`
	Inclusions       []string       `json:"inclusions" bson:"inclusions"`
	Exclusions       []string       `json:"exclusions" bson:"exclusions"`
	Itinerary        []ItineraryDay `json:"itinerary" bson:"itinerary"`
	Featured         bool           `json:"featured" bson:"featured"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// UnitPrice is the per-person price charged at booking time.
func (p *Package) UnitPrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}
