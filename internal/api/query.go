package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/starford/recipebook/internal/apperr"
	"github.com/starford/recipebook/internal/catalog"
)

// Query parameter names carrying the view state.
const (
	paramQuery     = "q"
	paramCategory  = "category"
	paramSort      = "sort"
	paramFavorites = "favorites"
	paramPerPage   = "per_page"
	paramPage      = "page"
)

// ParseView builds a view from query parameters, starting from the
// defaults. A page that is not a number falls back to 1 and one too large
// for an int saturates; everything else
// that cannot be parsed is an apperr.ErrInvalidView.
func ParseView(q url.Values) (catalog.ViewState, error) {
	v := catalog.DefaultView().WithQuery(q.Get(paramQuery))

	if c := q.Get(paramCategory); c != "" {
		v = v.WithCategory(c)
	}
	if s := q.Get(paramSort); s != "" {
		v = v.WithSort(catalog.SortStrategy(s))
	}
	if f := q.Get(paramFavorites); f != "" {
		on, err := strconv.ParseBool(f)
		if err != nil {
			return v, fmt.Errorf("%w: favorites: %q is not a boolean", apperr.ErrInvalidView, f)
		}
		v = v.WithFavoritesOnly(on)
	}
	if n := q.Get(paramPerPage); n != "" {
		perPage, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return v, fmt.Errorf("%w: per_page: %q is not a number", apperr.ErrInvalidView, n)
		}
		v = v.WithPerPage(perPage)
	}
	if p := q.Get(paramPage); p != "" {
		// Out-of-range numbers come back saturated and clamp like any
		// other stale page.
		page, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			page = 1
		}
		v = v.WithPage(page)
	}
	return v, nil
}

// EncodeView renders v as query parameters, omitting defaults.
func EncodeView(v catalog.ViewState) url.Values {
	def := catalog.DefaultView()
	q := url.Values{}
	if v.Query != "" {
		q.Set(paramQuery, v.Query)
	}
	if v.Category != def.Category {
		q.Set(paramCategory, v.Category)
	}
	if v.Sort != def.Sort {
		q.Set(paramSort, string(v.Sort))
	}
	if v.FavoritesOnly {
		q.Set(paramFavorites, "true")
	}
	if v.PerPage != def.PerPage {
		q.Set(paramPerPage, strconv.Itoa(v.PerPage))
	}
	if v.Page != def.Page {
		q.Set(paramPage, strconv.Itoa(v.Page))
	}
	return q
}

// pageHref links to v on the HTML page.
func pageHref(v catalog.ViewState) string {
	if q := EncodeView(v).Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}
