// Package dataset loads the static recipe collection and keeps it current.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/starford/recipebook/internal/models"
)

// Supported dataset formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// rawRecipe mirrors the file layout. time and rating are loosely typed
// because hand-written datasets mix numbers and strings.
type rawRecipe struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Category    string `json:"category" yaml:"category" toml:"category"`
	Time        any    `json:"time" yaml:"time" toml:"time"`
	Rating      any    `json:"rating" yaml:"rating" toml:"rating"`
	Image       string `json:"image" yaml:"image" toml:"image"`
}

type rawFile struct {
	Recipes []rawRecipe `json:"recipes" yaml:"recipes" toml:"recipes"`
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("dataset: unsupported file extension %q", filepath.Ext(path))
	}
}

// Decode parses a dataset document. Records keep their file order.
func Decode(data []byte, format string) ([]models.Recipe, error) {
	var f rawFile
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatTOML:
		_, err = toml.Decode(string(data), &f)
	default:
		return nil, fmt.Errorf("dataset: unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: decode %s: %w", format, err)
	}

	out := make([]models.Recipe, len(f.Recipes))
	for i, r := range f.Recipes {
		out[i] = models.Recipe{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Time:        displayString(r.Time),
			Rating:      number(r.Rating),
			Image:       r.Image,
		}
	}
	return out, nil
}

// displayString renders a loosely typed value the way it would print in
// the page: numbers in shortest decimal form, missing as "".
func displayString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}

// number coerces a loosely typed rating. Unparsable values become 0.
func number(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
