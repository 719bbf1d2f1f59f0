// Package catalog implements the recipe list pipeline: filter, search,
// sort and paginate over an in-memory recipe collection.
package catalog

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/recipebook/internal/apperr"
)

// AllCategories is the category selection that disables category filtering.
const AllCategories = "All"

// SortStrategy names an ordering of the filtered recipes.
type SortStrategy string

// Sort strategies. SortPopular and SortRating are the same ordering.
const (
	SortPopular SortStrategy = "popular"
	SortRating  SortStrategy = "rating"
	SortTime    SortStrategy = "time"
	SortNew     SortStrategy = "new"
)

// DefaultPerPage is the page size used when none is selected.
const DefaultPerPage = 12

// PageSizes lists the selectable page sizes.
var PageSizes = []int{6, 12, 24}

// ViewState holds the user-controlled selections that drive the pipeline.
// It is a value type; reducers return modified copies.
type ViewState struct {
	Query         string       `json:"query"`
	Category      string       `json:"category"`
	Sort          SortStrategy `json:"sort"`
	FavoritesOnly bool         `json:"favorites_only"`
	PerPage       int          `json:"per_page"`
	Page          int          `json:"page"`
}

// DefaultView returns the state a fresh session starts with.
func DefaultView() ViewState {
	return ViewState{
		Category: AllCategories,
		Sort:     SortPopular,
		PerPage:  DefaultPerPage,
		Page:     1,
	}
}

// Validate checks the selections a caller lets through to Run. Page is not
// checked; out-of-range pages are clamped by Run.
func (v ViewState) Validate() error {
	err := validation.ValidateStruct(&v,
		validation.Field(&v.Category, validation.Required),
		validation.Field(&v.Sort, validation.Required,
			validation.In(SortPopular, SortRating, SortTime, SortNew)),
		validation.Field(&v.PerPage, validation.Required, validation.In(intsToAny(PageSizes)...)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidView, err.Error())
	}
	return nil
}

func intsToAny(in []int) []any {
	out := make([]any, len(in))
	for i, n := range in {
		out[i] = n
	}
	return out
}
