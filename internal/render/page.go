package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/starford/recipebook/internal/catalog"
	"github.com/starford/recipebook/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("page.html").ParseFS(templateFS, "templates/page.html"))

// Option is a labelled choice in a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Card is one recipe tile.
type Card struct {
	Recipe   models.Recipe
	Image    string
	Rating   Rating
	Favorite FavoriteToggle
	Priority bool // first card on the page loads its image eagerly
}

// PageInput is everything the catalog page needs.
type PageInput struct {
	View       catalog.ViewState
	Page       catalog.Page
	Categories []string
	MaxStars   int
	IsFavorite func(id string) bool
	// Href renders a link to the given view.
	Href func(catalog.ViewState) string
}

// PageView is the template model for the catalog page.
type PageView struct {
	View             catalog.ViewState
	Page             catalog.Page
	Cards            []Card
	Categories       []Option
	Sorts            []Option
	PageSizes        []Option
	PrevURL          string
	NextURL          string
	FavoritesOnlyURL string
	ReturnURL        string
}

var sortLabels = []struct {
	strategy catalog.SortStrategy
	label    string
}{
	{catalog.SortPopular, "Popular"},
	{catalog.SortRating, "Highest rating"},
	{catalog.SortTime, "Shortest time"},
	{catalog.SortNew, "Newest"},
}

// NewPageView builds the template model.
func NewPageView(in PageInput) PageView {
	isFav := in.IsFavorite
	if isFav == nil {
		isFav = func(string) bool { return false }
	}
	current := in.View.WithPage(in.Page.NormalizedPage)

	cards := make([]Card, len(in.Page.Items))
	for i, r := range in.Page.Items {
		cards[i] = Card{
			Recipe:   r,
			Image:    r.ImageURL(),
			Rating:   NewRating(r.Rating, in.MaxStars),
			Favorite: FavoriteToggle{RecipeID: r.ID, IsFavorite: isFav(r.ID)},
			Priority: i == 0,
		}
	}

	cats := make([]Option, len(in.Categories))
	for i, c := range in.Categories {
		cats[i] = Option{Value: c, Label: c, Selected: c == in.View.Category}
	}
	sorts := make([]Option, len(sortLabels))
	for i, s := range sortLabels {
		sorts[i] = Option{Value: string(s.strategy), Label: s.label, Selected: s.strategy == in.View.Sort}
	}
	sizes := make([]Option, len(catalog.PageSizes))
	for i, n := range catalog.PageSizes {
		sizes[i] = Option{Value: strconv.Itoa(n), Label: fmt.Sprintf("%d / page", n), Selected: n == in.View.PerPage}
	}

	return PageView{
		View:             current,
		Page:             in.Page,
		Cards:            cards,
		Categories:       cats,
		Sorts:            sorts,
		PageSizes:        sizes,
		PrevURL:          in.Href(current.PrevPage(in.Page.PageCount)),
		NextURL:          in.Href(current.NextPage(in.Page.PageCount)),
		FavoritesOnlyURL: in.Href(current.ToggleFavoritesOnly()),
		ReturnURL:        in.Href(current),
	}
}

// WritePage renders the catalog page to w.
func WritePage(w io.Writer, pv PageView) error {
	return pageTmpl.Execute(w, pv)
}
