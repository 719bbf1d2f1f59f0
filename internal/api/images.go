package api

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

//go:embed static/placeholder.svg
var placeholderSVG []byte

// ImageHandler serves recipe images from a directory. Images that are not
// on disk, or every image when no directory is configured, get an
// embedded placeholder so cards always render.
type ImageHandler struct {
	root string
}

// NewImageHandler creates a handler rooted at dir. dir may be empty.
func NewImageHandler(dir string) *ImageHandler {
	return &ImageHandler{root: dir}
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the images dir, or ""
// when no directory is configured.
func (h *ImageHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if h.root == "" {
		return "", nil
	}
	root := filepath.Clean(h.root)
	abs := filepath.Join(root, cleaned)
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes images directory")
	}
	return abs, nil
}

// ServeFile handles GET /images/{filename}.
func (h *ImageHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if abs != "" {
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			http.ServeFile(w, r, abs)
			return
		}
	}
	// The .svg name sets the content type regardless of the requested URL.
	http.ServeContent(w, r, "placeholder.svg", time.Time{}, bytes.NewReader(placeholderSVG))
}
