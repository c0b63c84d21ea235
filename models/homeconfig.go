package models

import "time"

// HomeConfigKey is the _id of the singleton site content document.
const HomeConfigKey = "home"

type SiteSettings struct {
	SiteName     string            `json:"siteName" bson:"siteName"`
	Tagline      string            `json:"tagline" bson:"tagline"`
	Logo         string            `json:"logo" bson:"logo"`
	Favicon      string            `json:"favicon" bson:"favicon"`
	PrimaryColor string            `json:"primaryColor" bson:"primaryColor"`
	SocialLinks  map[string]string `json:"socialLinks" bson:"socialLinks"`
}

type HeroSection struct {
	Title           string `json:"title" bson:"title"`
	Subtitle        string `json:"subtitle" bson:"subtitle"`
	BackgroundImage string `json:"backgroundImage" bson:"backgroundImage"`
	CTAText         string `json:"ctaText" bson:"ctaText"`
	CTALink         string `json:"ctaLink" bson:"ctaLink"`
}

type FeaturedPackagesSection struct {
	Title    string `json:"title" bson:"title"`
	Subtitle string `json:"subtitle" bson:"subtitle"`
	Limit    int    `json:"limit" bson:"limit"`
}

type Stat struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

type AboutSection struct {
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
	Image   string `json:"image" bson:"image"`
	Stats   []Stat `json:"stats" bson:"stats"`
}

type ContactSection struct {
	Title   string `json:"title" bson:"title"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Address string `json:"address" bson:"address"`
	MapURL  string `json:"mapUrl" bson:"mapUrl"`
}

type SEO struct {
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Keywords    []string `json:"keywords" bson:"keywords"`
	OGImage     string   `json:"ogImage" bson:"ogImage"`
}

type Testimonial struct {
	Name     string `json:"name" bson:"name"`
	Location string `json:"location" bson:"location"`
	Text     string `json:"text" bson:"text"`
	Rating   int    `json:"rating" bson:"rating"`
	Avatar   string `json:"avatar" bson:"avatar"`
}

type TestimonialsSection struct {
	Title        string        `json:"title" bson:"title"`
	Enabled      bool          `json:"enabled" bson:"enabled"`
	Testimonials []Testimonial `json:"testimonials" bson:"testimonials"`
}

// HomeConfig is the editable marketing copy for the public site.
type HomeConfig struct {
	ID                      string                  `json:"-" bson:"_id"`
	SiteSettings            SiteSettings            `json:"siteSettings" bson:"siteSettings"`
	HeroSection             HeroSection             `json:"heroSection" bson:"heroSection"`
	FeaturedPackagesSection FeaturedPackagesSection `json:"featuredPackagesSection" bson:"featuredPackagesSection"`
	AboutSection            AboutSection            `json:"aboutSection" bson:"aboutSection"`
	ContactSection          ContactSection          `json:"contactSection" bson:"contactSection"`
	SEO                     SEO                     `json:"seo" bson:"seo"`
	TestimonialsSection     TestimonialsSection     `json:"testimonialsSection" bson:"testimonialsSection"`
	UpdatedAt               time.Time               `json:"updatedAt" bson:"updatedAt"`
}

// DefaultHomeConfig is inserted the first time the document is read.
func DefaultHomeConfig(now time.Time) HomeConfig {
	return HomeConfig{
		ID: HomeConfigKey,
		SiteSettings: SiteSettings{
			SiteName:     "Bhraman",
			Tagline:      "Journeys worth remembering",
			PrimaryColor: "#0f766e",
			SocialLinks:  map[string]string{},
		},
		HeroSection: HeroSection{
			Title:    "Discover your next adventure",
			Subtitle: "Handpicked travel packages across the country",
			CTAText:  "Explore packages",
			CTALink:  "/packages",
		},
		FeaturedPackagesSection: FeaturedPackagesSection{
			Title:    "Featured packages",
			Subtitle: "Our most loved trips",
			Limit:    6,
		},
		AboutSection: AboutSection{
			Title: "About us",
			Stats: []Stat{},
		},
		ContactSection: ContactSection{
			Title: "Get in touch",
		},
		SEO: SEO{
			Title:       "Bhraman - travel packages",
			Description: "Book curated travel packages with Bhraman.",
			Keywords:    []string{"travel", "tour packages", "holidays"},
		},
		TestimonialsSection: TestimonialsSection{
			Title:        "What travellers say",
			Enabled:      true,
			Testimonials: []Testimonial{},
		},
		UpdatedAt: now,
	}
}
