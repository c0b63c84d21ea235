package models

// ItineraryDay is one entry of a package's day-by-day plan.
type ItineraryDay struct {
	Day         int    `json:"day" bson:"day"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image,omitempty" bson:"image,omitempty"`
}
