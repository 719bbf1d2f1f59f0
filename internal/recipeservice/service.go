// Package recipeservice composes the catalog, the pipeline and per-session
// favorites into the operations the HTTP and MCP surfaces expose.
package recipeservice

import (
	"context"

	"github.com/starford/recipebook/internal/apperr"
	"github.com/starford/recipebook/internal/catalog"
	"github.com/starford/recipebook/internal/dataset"
	"github.com/starford/recipebook/internal/favorites"
	"github.com/starford/recipebook/internal/models"
	"github.com/starford/recipebook/internal/render"
	"github.com/starford/recipebook/internal/session"
)

// FavoritePublisher is notified after a favorite changes.
type FavoritePublisher interface {
	PublishFavorite(sessionID, id string, favorite bool)
}

// BrowseResult is one pipeline run plus the facets needed to render it.
type BrowseResult struct {
	View       catalog.ViewState `json:"view"`
	Page       catalog.Page      `json:"page"`
	Categories []string          `json:"categories"`
}

// Service coordinates the catalog and session favorites.
type Service struct {
	catalog  *dataset.Catalog
	sessions *session.Registry
	events   FavoritePublisher
	maxStars int
}

// NewService creates a service. events may be nil.
func NewService(cat *dataset.Catalog, sessions *session.Registry, events FavoritePublisher, maxStars int) *Service {
	if maxStars <= 0 {
		maxStars = render.DefaultMaxStars
	}
	return &Service{catalog: cat, sessions: sessions, events: events, maxStars: maxStars}
}

// Browse validates view and runs the pipeline against the session's favorites.
func (s *Service) Browse(ctx context.Context, sessionID string, view catalog.ViewState) (*BrowseResult, error) {
	res, _, err := s.browse(ctx, sessionID, view)
	return res, err
}

func (s *Service) browse(ctx context.Context, sessionID string, view catalog.ViewState) (*BrowseResult, *favorites.Store, error) {
	if err := view.Validate(); err != nil {
		return nil, nil, err
	}
	favs := s.sessions.Favorites(ctx, sessionID)
	page := catalog.Run(s.catalog.Recipes(), view, favs)
	return &BrowseResult{
		View:       view.WithPage(page.NormalizedPage),
		Page:       page,
		Categories: s.catalog.Categories(),
	}, favs, nil
}

// Recipe returns a single recipe.
func (s *Service) Recipe(_ context.Context, id string) (models.Recipe, error) {
	r, ok := s.catalog.Get(id)
	if !ok {
		return models.Recipe{}, apperr.ErrNotFound
	}
	return r, nil
}

// Categories returns the category facet.
func (s *Service) Categories(_ context.Context) []string {
	return s.catalog.Categories()
}

// Favorites returns the session's favorite ids, sorted.
func (s *Service) Favorites(ctx context.Context, sessionID string) []string {
	return s.sessions.Favorites(ctx, sessionID).IDs()
}

// IsFavorite reports whether id is a favorite of the session.
func (s *Service) IsFavorite(ctx context.Context, sessionID, id string) bool {
	return s.sessions.Favorites(ctx, sessionID).IsFavorite(id)
}

// ToggleFavorite flips id in the session's favorites through the card's
// toggle control and returns the new membership. Unknown recipes are
// rejected with apperr.ErrNotFound.
func (s *Service) ToggleFavorite(ctx context.Context, sessionID, id string) (bool, error) {
	if _, ok := s.catalog.Get(id); !ok {
		return false, apperr.ErrNotFound
	}
	favs := s.sessions.Favorites(ctx, sessionID)

	var now bool
	ctrl := render.FavoriteToggle{
		RecipeID:   id,
		IsFavorite: favs.IsFavorite(id),
		OnToggle:   func(id string) { now = favs.Toggle(ctx, id) },
	}
	ctrl.Activate()

	if s.events != nil {
		s.events.PublishFavorite(sessionID, id, now)
	}
	return now, nil
}

// PageView runs the pipeline and builds the HTML page model. href renders
// links to other views. An invalid view is an apperr.ErrInvalidView.
func (s *Service) PageView(ctx context.Context, sessionID string, view catalog.ViewState, href func(catalog.ViewState) string) (render.PageView, error) {
	res, favs, err := s.browse(ctx, sessionID, view)
	if err != nil {
		return render.PageView{}, err
	}
	return render.NewPageView(render.PageInput{
		View:       view,
		Page:       res.Page,
		Categories: res.Categories,
		MaxStars:   s.maxStars,
		IsFavorite: favs.IsFavorite,
		Href:       href,
	}), nil
}

// MaxStars returns the configured star count for ratings.
func (s *Service) MaxStars() int { return s.maxStars }
