package dataset

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/starford/recipebook/internal/catalog"
	"github.com/starford/recipebook/internal/models"
)

//go:embed data/recipes.json
var embedded embed.FS

const embeddedPath = "data/recipes.json"

type snapshot struct {
	recipes    []models.Recipe
	byID       map[string]int
	categories []string
	checksum   string
}

// Catalog holds the current recipe collection. Readers always see a
// complete snapshot; Reload swaps snapshots atomically.
type Catalog struct {
	path string // empty means the embedded dataset
	cur  atomic.Pointer[snapshot]
}

// Load reads the dataset at path, or the embedded default when path is "".
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromRecipes builds a catalog around an in-memory collection.
func FromRecipes(recipes []models.Recipe) *Catalog {
	c := &Catalog{}
	c.cur.Store(newSnapshot(recipes, ""))
	return c
}

// Path returns the dataset file, or "" for the embedded dataset.
func (c *Catalog) Path() string { return c.path }

// Reload re-reads the dataset. It reports whether the content changed.
// On error the previous snapshot stays in place.
func (c *Catalog) Reload() (bool, error) {
	data, format, err := c.read()
	if err != nil {
		return false, err
	}
	sum := digest(data)
	if prev := c.cur.Load(); prev != nil && prev.checksum == sum {
		return false, nil
	}
	recipes, err := Decode(data, format)
	if err != nil {
		return false, err
	}
	c.cur.Store(newSnapshot(recipes, sum))
	return true, nil
}

func (c *Catalog) read() ([]byte, string, error) {
	if c.path == "" {
		data, err := embedded.ReadFile(embeddedPath)
		if err != nil {
			return nil, "", fmt.Errorf("dataset: read embedded: %w", err)
		}
		return data, FormatJSON, nil
	}
	format, err := FormatFromPath(c.path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, "", fmt.Errorf("dataset: read %s: %w", c.path, err)
	}
	return data, format, nil
}

func newSnapshot(recipes []models.Recipe, sum string) *snapshot {
	byID := make(map[string]int, len(recipes))
	for i, r := range recipes {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = i
		}
	}
	return &snapshot{
		recipes:    recipes,
		byID:       byID,
		categories: catalog.Categories(recipes),
		checksum:   sum,
	}
}

// Recipes returns the collection in dataset order. Callers must not modify it.
func (c *Catalog) Recipes() []models.Recipe {
	return c.cur.Load().recipes
}

// Get returns the first recipe with id.
func (c *Catalog) Get(id string) (models.Recipe, bool) {
	s := c.cur.Load()
	i, ok := s.byID[id]
	if !ok {
		return models.Recipe{}, false
	}
	return s.recipes[i], true
}

// Categories returns "All" plus each category in first-seen order.
func (c *Catalog) Categories() []string {
	return c.cur.Load().categories
}

// Checksum returns the SHA-256 of the loaded dataset bytes.
func (c *Catalog) Checksum() string {
	return c.cur.Load().checksum
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.cur.Load().recipes)
}

func digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
