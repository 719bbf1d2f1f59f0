package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/starford/recipebook/internal/recipeservice"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// AuthEnabled controls whether Bearer token auth is enforced on /api.
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /api/events.
	Events http.Handler
	// ImagesDir is served at /images. Missing images, or all of them when
	// ImagesDir is empty, fall back to a placeholder.
	ImagesDir string
	// AllowedOrigins enables CORS on /api when non-empty.
	AllowedOrigins []string
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
}

// NewRouter creates a chi router with the HTML page, the JSON API under
// /api and the image directory mounted.
func NewRouter(svc *recipeservice.Service, opts RouterOptions) chi.Router {
	h := NewHandler(svc)
	ph := NewPageHandler(svc)

	r := chi.NewRouter()
	r.Use(SessionMiddleware(opts.SecureCookie))

	// HTML page and its progressive-enhancement form posts.
	r.Get("/", ph.Index)
	r.Post("/favorites/{id}/toggle", ph.ToggleFavorite)

	r.Get("/images/{filename}", NewImageHandler(opts.ImagesDir).ServeFile)

	r.Route("/api", func(r chi.Router) {
		if len(opts.AllowedOrigins) > 0 {
			r.Use(cors.New(cors.Options{
				AllowedOrigins:   opts.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost},
				AllowedHeaders:   []string{"Authorization", "Content-Type"},
				AllowCredentials: true,
			}).Handler)
		}
		r.Use(AuthMiddleware(opts.AuthEnabled, opts.Token))

		r.Get("/recipes", h.ListRecipes)
		r.Get("/recipes/{id}", h.GetRecipe)
		r.Get("/categories", h.Categories)
		r.Get("/favorites", h.Favorites)
		r.Post("/favorites/{id}/toggle", h.ToggleFavorite)

		// SSE endpoint (protected by same auth middleware).
		if opts.Events != nil {
			r.Get("/events", opts.Events.ServeHTTP)
		}
	})

	return r
}
