// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes recipebook tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/recipebook/internal/apperr"
	"github.com/starford/recipebook/internal/catalog"
	"github.com/starford/recipebook/internal/recipeservice"
)

// Scope is the favorites scope shared by every MCP client of a process.
const Scope = "mcp"

// Server wraps the MCP server with recipebook tools.
type Server struct {
	mcp *server.MCPServer
	svc *recipeservice.Service
}

// New creates a new MCP server with all recipebook tools registered.
func New(svc *recipeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Recipebook",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("browse_recipes",
		mcp.WithDescription("Filter, search, sort and paginate the recipe catalog. "+
			"Read the catalog guide first via get_catalog_guide or the recipebook://catalog-guide resource."),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against title and description")),
		mcp.WithString("category", mcp.Description("Exact category name, or All (default)")),
		mcp.WithString("sort", mcp.Description("Sort strategy"),
			mcp.Enum(string(catalog.SortPopular), string(catalog.SortRating), string(catalog.SortTime), string(catalog.SortNew))),
		mcp.WithBoolean("favorites_only", mcp.Description("Only list favorited recipes")),
		mcp.WithNumber("per_page", mcp.Description("Page size: 6, 12 (default) or 24")),
		mcp.WithNumber("page", mcp.Description("1-based page number; out-of-range pages are clamped")),
	), s.browseRecipes)

	s.mcp.AddTool(mcp.NewTool("get_recipe",
		mcp.WithDescription("Read a single recipe by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id")),
	), s.getRecipe)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the category facet: All followed by every category in catalog order."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Add a recipe to favorites, or remove it if it is already a favorite."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id")),
	), s.toggleFavorite)

	s.mcp.AddTool(mcp.NewTool("list_favorites",
		mcp.WithDescription("List favorite recipe ids, sorted."),
	), s.listFavorites)

	s.mcp.AddTool(mcp.NewTool("get_catalog_guide",
		mcp.WithDescription("Returns how browse_recipes filters, sorts and paginates the catalog."),
	), s.getCatalogGuide)

	// Resource: catalog guide.
	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Catalog Guide",
			mcp.WithResourceDescription("How the recipe catalog is filtered, searched, sorted and paginated."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// viewFromRequest applies the tool arguments to the default view.
func viewFromRequest(req mcp.CallToolRequest) catalog.ViewState {
	v := catalog.DefaultView().
		WithQuery(req.GetString("query", "")).
		WithFavoritesOnly(req.GetBool("favorites_only", false))
	if c := req.GetString("category", ""); c != "" {
		v = v.WithCategory(c)
	}
	if st := req.GetString("sort", ""); st != "" {
		v = v.WithSort(catalog.SortStrategy(st))
	}
	if n := req.GetInt("per_page", 0); n != 0 {
		v = v.WithPerPage(n)
	}
	if p := req.GetInt("page", 0); p != 0 {
		v = v.WithPage(p)
	}
	return v
}

type browseItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Time     string  `json:"time"`
	Rating   float64 `json:"rating"`
	Favorite bool    `json:"favorite"`
}

type browseOutput struct {
	Items        []browseItem      `json:"items"`
	TotalMatched int               `json:"total_matched"`
	PageCount    int               `json:"page_count"`
	View         catalog.ViewState `json:"view"`
}

func (s *Server) browseRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Browse(ctx, Scope, viewFromRequest(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := browseOutput{
		Items:        make([]browseItem, len(res.Page.Items)),
		TotalMatched: res.Page.TotalMatched,
		PageCount:    res.Page.PageCount,
		View:         res.View,
	}
	for i, r := range res.Page.Items {
		out.Items[i] = browseItem{
			ID:       r.ID,
			Title:    r.Title,
			Category: r.Category,
			Time:     r.Time,
			Rating:   r.Rating,
			Favorite: s.svc.IsFavorite(ctx, Scope, r.ID),
		}
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.svc.Recipe(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	data, _ := json.MarshalIndent(struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Time        string  `json:"time"`
		Rating      float64 `json:"rating"`
		Image       string  `json:"image"`
		Favorite    bool    `json:"favorite"`
	}{r.ID, r.Title, r.Description, r.Category, r.Time, r.Rating, r.ImageURL(), s.svc.IsFavorite(ctx, Scope, r.ID)}, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(s.svc.Categories(ctx), "\n")), nil
}

func (s *Server) toggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	now, err := s.svc.ToggleFavorite(ctx, Scope, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if now {
		return mcp.NewToolResultText(fmt.Sprintf("added to favorites: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed from favorites: %s", id)), nil
}

func (s *Server) listFavorites(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.svc.Favorites(ctx, Scope)
	if len(ids) == 0 {
		return mcp.NewToolResultText("no favorites"), nil
	}
	return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
}

func (s *Server) getCatalogGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CatalogGuide), nil
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     CatalogGuide,
		},
	}, nil
}
