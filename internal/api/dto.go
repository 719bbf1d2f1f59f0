package api

import (
	"github.com/starford/recipebook/internal/catalog"
	"github.com/starford/recipebook/internal/models"
)

// Recipe is a recipe as returned by the API.
type Recipe struct {
	models.Recipe
	ImageURL string `json:"image_url" example:"/images/spaghetti.jpg"`
	Favorite bool   `json:"favorite" example:"true"`
}

// RecipeListResponse is one page of pipeline output.
type RecipeListResponse struct {
	Items        []Recipe          `json:"items" validate:"required"`
	TotalMatched int               `json:"total_matched" example:"42" validate:"required"`
	PageCount    int               `json:"page_count" example:"4" validate:"required"`
	Page         int               `json:"page" example:"1" validate:"required"`
	Categories   []string          `json:"categories" validate:"required"`
	View         catalog.ViewState `json:"view" validate:"required"`
}

// CategoriesResponse lists the category facet.
type CategoriesResponse struct {
	Categories []string `json:"categories" example:"All,Dinner" validate:"required"`
}

// FavoritesResponse lists the session's favorite recipe ids.
type FavoritesResponse struct {
	IDs []string `json:"ids" example:"r001,r004" validate:"required"`
}

// ToggleResponse reports a favorite's membership after a toggle.
type ToggleResponse struct {
	ID       string `json:"id" example:"r001" validate:"required"`
	Favorite bool   `json:"favorite" example:"true"`
}
