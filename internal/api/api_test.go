package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/starford/recipebook/internal/catalog"
	"github.com/starford/recipebook/internal/dataset"
	"github.com/starford/recipebook/internal/kvstore"
	"github.com/starford/recipebook/internal/models"
	"github.com/starford/recipebook/internal/recipeservice"
	"github.com/starford/recipebook/internal/session"
	"github.com/starford/recipebook/internal/testutil"
)

// testEnv builds a router over the shared test catalog.
func testEnv(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()
	return NewRouter(testutil.TestService(t, nil), opts)
}

// client replays the session cookie issued by the first response.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodPost, target, nil))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v (body %s)", err, w.Body.String())
	}
	return v
}

func ids(items []Recipe) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func TestListRecipes_Defaults(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	w := c.get("/api/recipes")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if c.cookie == nil || !session.ValidID(c.cookie.Value) {
		t.Fatalf("session cookie not issued: %+v", c.cookie)
	}
	if !c.cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	resp := decode[RecipeListResponse](t, w)
	if resp.TotalMatched != 4 || resp.PageCount != 1 || resp.Page != 1 {
		t.Errorf("total=%d pages=%d page=%d", resp.TotalMatched, resp.PageCount, resp.Page)
	}
	if got, want := ids(resp.Items), []string{"r4", "r2", "r1", "r3"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if want := []string{"All", "Dinner", "Breakfast", "Dessert"}; !slices.Equal(resp.Categories, want) {
		t.Errorf("categories = %v, want %v", resp.Categories, want)
	}
	if resp.View != catalog.DefaultView() {
		t.Errorf("view = %+v", resp.View)
	}
}

func TestListRecipes_FilterSearchSort(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	w := c.get("/api/recipes?category=Dinner&q=+PASTA+&sort=time")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[RecipeListResponse](t, w)
	if got, want := ids(resp.Items), []string{"r1", "r3"}; !slices.Equal(got, want) {
		t.Errorf("items = %v, want %v", got, want)
	}
	if resp.Items[0].ImageURL != "/images/pasta.jpg" {
		t.Errorf("image_url = %q", resp.Items[0].ImageURL)
	}
}

func TestListRecipes_Pagination(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	tests := []struct {
		query    string
		wantPage int
		wantLen  int
	}{
		{"per_page=6&page=1", 1, 4},
		{"per_page=6&page=99", 1, 4},
		{"per_page=6&page=-3", 1, 4},
		{"per_page=6&page=abc", 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := c.get("/api/recipes?" + tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			resp := decode[RecipeListResponse](t, w)
			if resp.Page != tt.wantPage || len(resp.Items) != tt.wantLen {
				t.Errorf("page=%d len=%d, want page=%d len=%d", resp.Page, len(resp.Items), tt.wantPage, tt.wantLen)
			}
			if resp.View.Page != tt.wantPage {
				t.Errorf("view.page = %d, want normalized %d", resp.View.Page, tt.wantPage)
			}
		})
	}
}

func TestListRecipes_InvalidParams(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	for _, q := range []string{"per_page=7", "per_page=abc", "sort=spicy", "favorites=maybe", "category="} {
		t.Run(q, func(t *testing.T) {
			w := c.get("/api/recipes?" + q)
			// An empty category falls back to the default.
			if q == "category=" {
				if w.Code != http.StatusOK {
					t.Errorf("status = %d, want 200", w.Code)
				}
				return
			}
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetRecipe(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	w := c.get("/api/recipes/r2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	rec := decode[Recipe](t, w)
	if rec.Title != "Berry Smoothie" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.ImageURL != "/images/spaghetti.jpg" {
		t.Errorf("image_url = %q, want fallback", rec.ImageURL)
	}

	if w := c.get("/api/recipes/nope"); w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
}

func TestCategories(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}
	w := c.get("/api/categories")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[CategoriesResponse](t, w)
	if resp.Categories[0] != catalog.AllCategories || len(resp.Categories) != 4 {
		t.Errorf("categories = %v", resp.Categories)
	}
}

func TestFavoritesFlow(t *testing.T) {
	router := testEnv(t, RouterOptions{})
	c := &client{t: t, h: router}

	w := c.post("/api/favorites/r2/toggle")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := decode[ToggleResponse](t, w); got != (ToggleResponse{ID: "r2", Favorite: true}) {
		t.Errorf("toggle = %+v", got)
	}

	favs := decode[FavoritesResponse](t, c.get("/api/favorites"))
	if !slices.Equal(favs.IDs, []string{"r2"}) {
		t.Errorf("favorites = %v", favs.IDs)
	}

	resp := decode[RecipeListResponse](t, c.get("/api/recipes?favorites=true"))
	if got := ids(resp.Items); !slices.Equal(got, []string{"r2"}) {
		t.Errorf("favorites-only items = %v", got)
	}
	if !resp.Items[0].Favorite {
		t.Error("item should be marked favorite")
	}

	// Another session sees none of it.
	other := &client{t: t, h: router}
	if favs := decode[FavoritesResponse](t, other.get("/api/favorites")); len(favs.IDs) != 0 {
		t.Errorf("other session favorites = %v", favs.IDs)
	}

	if got := decode[ToggleResponse](t, c.post("/api/favorites/r2/toggle")); got.Favorite {
		t.Error("second toggle should remove the favorite")
	}
	if w := c.post("/api/favorites/ghost/toggle"); w.Code != http.StatusNotFound {
		t.Errorf("unknown recipe status = %d, want 404", w.Code)
	}
}

func TestSessionMiddleware_ReplacesMalformedCookie(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{}), cookie: &http.Cookie{Name: session.CookieName, Value: "../../etc"}}
	c.get("/api/favorites")
	if c.cookie.Value == "../../etc" || !session.ValidID(c.cookie.Value) {
		t.Errorf("cookie = %q, want a fresh id", c.cookie.Value)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := testEnv(t, RouterOptions{AuthEnabled: true, Token: "secret"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}

	// The HTML page is not behind the API token.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("page status = %d, want 200", w.Code)
	}
}

func TestCORS(t *testing.T) {
	router := testEnv(t, RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
}

func TestIndexPage(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	w := c.get("/?category=Dessert")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Lemon Tart") || strings.Contains(body, "Chicken Soup") {
		t.Error("page should list only the Dessert recipes")
	}

	if w := c.get("/?per_page=5"); w.Code != http.StatusBadRequest {
		t.Errorf("bad per_page status = %d, want 400", w.Code)
	}
}

func TestToggleFavoriteForm(t *testing.T) {
	c := &client{t: t, h: testEnv(t, RouterOptions{})}

	form := url.Values{"return": {"/?category=Dinner&page=2"}}
	req := httptest.NewRequest(http.MethodPost, "/favorites/r1/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := c.do(req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/?category=Dinner&page=2" {
		t.Errorf("location = %q", loc)
	}

	favs := decode[FavoritesResponse](t, c.get("/api/favorites"))
	if !slices.Equal(favs.IDs, []string{"r1"}) {
		t.Errorf("favorites = %v", favs.IDs)
	}

	if w := c.post("/favorites/ghost/toggle"); w.Code != http.StatusNotFound {
		t.Errorf("unknown recipe status = %d, want 404", w.Code)
	}
}

func TestSafeReturn(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/?page=2", "/?page=2"},
		{"/", "/"},
		{"", "/"},
		{"//evil.example/", "/"},
		{"/\\evil.example", "/"},
		{"https://evil.example/", "/"},
	}
	for _, tt := range tests {
		if got := safeReturn(tt.in); got != tt.want {
			t.Errorf("safeReturn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEncodeView(t *testing.T) {
	if q := EncodeView(catalog.DefaultView()); len(q) != 0 {
		t.Errorf("default view encodes to %v, want empty", q)
	}
	if got := pageHref(catalog.DefaultView()); got != "/" {
		t.Errorf("pageHref(default) = %q", got)
	}

	v := catalog.DefaultView().
		WithQuery("soup").
		WithCategory("Dinner").
		WithSort(catalog.SortTime).
		WithFavoritesOnly(true).
		WithPerPage(24).
		WithPage(3)
	back, err := ParseView(EncodeView(v))
	if err != nil {
		t.Fatalf("ParseView: %v", err)
	}
	if back != v {
		t.Errorf("round trip = %+v, want %+v", back, v)
	}
}

func TestImageHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pasta.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	router := testEnv(t, RouterOptions{ImagesDir: dir})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/pasta.jpg", nil))
	if w.Code != http.StatusOK || w.Body.String() != "jpeg" {
		t.Errorf("status = %d body = %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/missing.jpg", nil))
	assertPlaceholder(t, w)

	for _, h := range []*ImageHandler{NewImageHandler(dir), NewImageHandler("")} {
		for _, name := range []string{"", "..", "../secret", "a/b.jpg"} {
			if _, err := h.safeName(name); err == nil {
				t.Errorf("safeName(%q) with root %q should fail", name, h.root)
			}
		}
	}
}

func TestImageHandler_NoDirServesPlaceholder(t *testing.T) {
	router := testEnv(t, RouterOptions{})

	// Every card links to an image, including the fallback for recipes
	// without one.
	for _, target := range []string{"/images/spaghetti.jpg", "/images/pasta.jpg"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assertPlaceholder(t, w)
	}
}

func assertPlaceholder(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), placeholderSVG) {
		t.Error("body should be the placeholder image")
	}
}

// pagedEnv serves fourteen recipes: three pages at six per page, with
// "Soup" holding only four of them.
func pagedEnv(t *testing.T) http.Handler {
	t.Helper()
	recipes := make([]models.Recipe, 14)
	for i := range recipes {
		cat := "Main"
		if i%4 == 0 {
			cat = "Soup"
		}
		recipes[i] = models.Recipe{
			ID:       fmt.Sprintf("p%02d", i),
			Title:    fmt.Sprintf("Dish %d", i),
			Category: cat,
			Time:     fmt.Sprintf("%d min", 10+i),
			Rating:   float64(i%5) + 0.5,
		}
	}
	svc := recipeservice.NewService(dataset.FromRecipes(recipes), session.NewRegistry(kvstore.NewMemory(), nil), nil, 0)
	return NewRouter(svc, RouterOptions{})
}

func TestIndexPage_FilterFormKeepsPage(t *testing.T) {
	c := &client{t: t, h: pagedEnv(t)}

	w := c.get("/?per_page=6&page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `<input type="hidden" name="page" value="2">`) {
		t.Fatal("filter form should carry the current page")
	}

	// Submitting a new sort from page 2 stays on page 2.
	w = c.get("/?q=&category=All&sort=time&per_page=6&page=2")
	if !strings.Contains(w.Body.String(), `<input type="hidden" name="page" value="2">`) {
		t.Error("sort change should keep page 2")
	}

	// Narrowing to one page clamps instead of resetting through the form.
	w = c.get("/?q=&category=Soup&sort=popular&per_page=6&page=2")
	if !strings.Contains(w.Body.String(), `<input type="hidden" name="page" value="1">`) {
		t.Error("stale page should clamp to the only page")
	}
}

func TestListRecipes_FilterChangeKeepsPage(t *testing.T) {
	c := &client{t: t, h: pagedEnv(t)}

	tests := []struct {
		query    string
		wantPage int
	}{
		{"per_page=6&page=2&sort=time", 2},
		{"per_page=6&page=2&sort=new&category=Main", 2},
		{"per_page=6&page=3&category=Soup", 1},
		{"per_page=6&page=99999999999999999999", 3},
		{"per_page=6&page=-99999999999999999999", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := c.get("/api/recipes?" + tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if got := decode[RecipeListResponse](t, w).Page; got != tt.wantPage {
				t.Errorf("page = %d, want %d", got, tt.wantPage)
			}
		})
	}
}

func TestParseView_PageOverflowSaturates(t *testing.T) {
	v, err := ParseView(url.Values{"page": {"99999999999999999999"}})
	if err != nil {
		t.Fatalf("ParseView: %v", err)
	}
	if v.Page != math.MaxInt {
		t.Errorf("page = %d, want MaxInt", v.Page)
	}
	if v, _ := ParseView(url.Values{"page": {"two"}}); v.Page != 1 {
		t.Errorf("non-numeric page = %d, want 1", v.Page)
	}
}

func TestIndexPage_InvalidViewIsBadRequest(t *testing.T) {
	c := &client{t: t, h: pagedEnv(t)}
	for _, q := range []string{"sort=spicy", "per_page=7", "favorites=maybe"} {
		if w := c.get("/?" + q); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, w.Code)
		}
	}
}
