// Package models defines the domain types for the recipe catalog.
package models

// FallbackImage is served for recipes that carry no image of their own.
const FallbackImage = "/images/spaghetti.jpg"

// Recipe is a single catalog entry. Recipes are immutable once loaded.
type Recipe struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Time        string  `json:"time"` // display string, usually "<n> <unit>"
	Rating      float64 `json:"rating"`
	Image       string  `json:"image,omitempty"`
}

// ImageURL returns the recipe image or the fallback when none is set.
func (r Recipe) ImageURL() string {
	if r.Image == "" {
		return FallbackImage
	}
	return r.Image
}
