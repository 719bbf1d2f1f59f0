// Package testutil provides shared test helpers for setting up catalogs,
// key-value stores and services.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/recipebook/internal/dataset"
	"github.com/starford/recipebook/internal/kvstore"
	"github.com/starford/recipebook/internal/models"
	"github.com/starford/recipebook/internal/recipeservice"
	"github.com/starford/recipebook/internal/session"
)

// Recipes is a small fixed catalog used across package tests.
var Recipes = []models.Recipe{
	{ID: "r1", Title: "Pasta Primavera", Description: "Spring vegetables", Category: "Dinner", Time: "30 min", Rating: 4.5, Image: "/images/pasta.jpg"},
	{ID: "r2", Title: "Berry Smoothie", Description: "Quick breakfast drink", Category: "Breakfast", Time: "5 min", Rating: 4.8},
	{ID: "r3", Title: "Chicken Soup", Description: "Comforting pasta broth", Category: "Dinner", Time: "90 min", Rating: 3.9, Image: "/images/soup.jpg"},
	{ID: "r4", Title: "Lemon Tart", Description: "Sharp and sweet", Category: "Dessert", Time: "1 hr", Rating: 5, Image: "/images/tart.jpg"},
}

// TestCatalog returns a catalog holding Recipes.
func TestCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()
	return dataset.FromRecipes(Recipes)
}

// TestKV opens a temporary SQLite key-value store that is closed on cleanup.
func TestKV(t *testing.T) kvstore.Store {
	t.Helper()
	kv, err := kvstore.Open(kvstore.BackendSQLite, filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// TestService wires a service over TestCatalog and TestKV. events may be nil.
func TestService(t *testing.T, events recipeservice.FavoritePublisher) *recipeservice.Service {
	t.Helper()
	return recipeservice.NewService(TestCatalog(t), session.NewRegistry(TestKV(t), nil), events, 0)
}
