package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/recipebook/internal/apperr"
	"github.com/starford/recipebook/internal/models"
	"github.com/starford/recipebook/internal/recipeservice"
	"github.com/starford/recipebook/internal/render"
	"github.com/starford/recipebook/internal/session"
)

// Handler holds API route handlers.
type Handler struct {
	svc *recipeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *recipeservice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) recipeDTO(r *http.Request, rec models.Recipe) Recipe {
	sid := session.IDFromContext(r.Context())
	return Recipe{
		Recipe:   rec,
		ImageURL: rec.ImageURL(),
		Favorite: h.svc.IsFavorite(r.Context(), sid, rec.ID),
	}
}

// ListRecipes handles GET /api/recipes.
//
//	@Summary		Filter, search, sort and paginate the catalog
//	@Tags			recipes
//	@Produce		json
//	@Param			q			query		string	false	"Search text"
//	@Param			category	query		string	false	"Category"	default(All)
//	@Param			sort		query		string	false	"Sort strategy"	Enums(popular, rating, time, new)
//	@Param			favorites	query		bool	false	"Favorites only"
//	@Param			per_page	query		int		false	"Page size"	Enums(6, 12, 24)
//	@Param			page		query		int		false	"Page number"
//	@Success		200			{object}	RecipeListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	view, err := ParseView(r.URL.Query())
	if err != nil {
		writeServiceError(w, "list recipes", err)
		return
	}
	res, err := h.svc.Browse(r.Context(), session.IDFromContext(r.Context()), view)
	if err != nil {
		writeServiceError(w, "list recipes", err)
		return
	}

	items := make([]Recipe, len(res.Page.Items))
	for i, rec := range res.Page.Items {
		items[i] = h.recipeDTO(r, rec)
	}
	writeJSON(w, http.StatusOK, RecipeListResponse{
		Items:        items,
		TotalMatched: res.Page.TotalMatched,
		PageCount:    res.Page.PageCount,
		Page:         res.Page.NormalizedPage,
		Categories:   res.Categories,
		View:         res.View,
	})
}

// GetRecipe handles GET /api/recipes/{id}.
//
//	@Summary		Get a single recipe
//	@Tags			recipes
//	@Produce		json
//	@Param			id	path		string	true	"Recipe id"
//	@Success		200	{object}	Recipe
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes/{id} [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.svc.Recipe(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, h.recipeDTO(r, rec))
}

// Categories handles GET /api/categories.
//
//	@Summary		List the category facet
//	@Tags			recipes
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: h.svc.Categories(r.Context())})
}

// Favorites handles GET /api/favorites.
//
//	@Summary		List the session's favorite recipe ids
//	@Tags			favorites
//	@Produce		json
//	@Success		200	{object}	FavoritesResponse
//	@Security		BearerAuth
//	@Router			/favorites [get]
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	ids := h.svc.Favorites(r.Context(), session.IDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, FavoritesResponse{IDs: ids})
}

// ToggleFavorite handles POST /api/favorites/{id}/toggle.
//
//	@Summary		Add or remove a recipe from the session's favorites
//	@Tags			favorites
//	@Produce		json
//	@Param			id	path		string	true	"Recipe id"
//	@Success		200	{object}	ToggleResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/favorites/{id}/toggle [post]
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now, err := h.svc.ToggleFavorite(r.Context(), session.IDFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, "toggle favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{ID: id, Favorite: now})
}

// PageHandler serves the HTML catalog page and its form posts.
type PageHandler struct {
	svc *recipeservice.Service
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(svc *recipeservice.Service) *PageHandler {
	return &PageHandler{svc: svc}
}

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	view, err := ParseView(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pv, err := h.svc.PageView(r.Context(), session.IDFromContext(r.Context()), view, pageHref)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidView) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("render page failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Render into a buffer so template errors still produce a clean 500.
	var buf bytes.Buffer
	if err := render.WritePage(&buf, pv); err != nil {
		slog.Error("render page failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// ToggleFavorite handles POST /favorites/{id}/toggle and redirects back
// to the view named by the "return" form field.
func (h *PageHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.ToggleFavorite(r.Context(), session.IDFromContext(r.Context()), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		slog.Error("toggle favorite failed", slog.String("id", id), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, safeReturn(r.PostFormValue("return")), http.StatusSeeOther)
}

// safeReturn keeps redirects on this host.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
