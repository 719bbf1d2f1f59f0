package catalog

import (
	"strings"

	"github.com/starford/recipebook/internal/models"
)

// FavoriteChecker reports whether a recipe id is marked favorite.
type FavoriteChecker interface {
	IsFavorite(id string) bool
}

// Page is one page of pipeline output.
type Page struct {
	Items          []models.Recipe `json:"items"`
	TotalMatched   int             `json:"total_matched"`
	PageCount      int             `json:"page_count"`
	NormalizedPage int             `json:"page"`
}

// Run filters, searches, sorts and paginates recipes according to view.
// The input slice is never modified. favs may be nil when no favorites
// are known, in which case a favorites-only view matches nothing.
func Run(recipes []models.Recipe, view ViewState, favs FavoriteChecker) Page {
	list := Filter(recipes, view, favs)
	sortRecipes(list, view.Sort)
	return Paginate(list, view.PerPage, view.Page)
}

// Filter applies the favorites, category and text filters in that order
// and returns a fresh slice.
func Filter(recipes []models.Recipe, view ViewState, favs FavoriteChecker) []models.Recipe {
	q := strings.ToLower(strings.TrimSpace(view.Query))
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if view.FavoritesOnly && (favs == nil || !favs.IsFavorite(r.ID)) {
			continue
		}
		if view.Category != AllCategories && r.Category != view.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Paginate slices list into the requested page. The page is clamped to
// [1, PageCount]; there is always at least one page.
func Paginate(list []models.Recipe, perPage, page int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(list)
	pageCount := max(1, (total+perPage-1)/perPage)
	page = clampPage(page, pageCount)

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	return Page{
		Items:          list[start:end:end],
		TotalMatched:   total,
		PageCount:      pageCount,
		NormalizedPage: page,
	}
}

// Categories returns "All" followed by each distinct category in the
// order it first appears.
func Categories(recipes []models.Recipe) []string {
	seen := make(map[string]struct{}, len(recipes))
	out := []string{AllCategories}
	for _, r := range recipes {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}
