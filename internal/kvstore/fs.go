package kvstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FS stores each value in its own file: <root>/<scope>/<key>. Scope and
// key are hex-encoded so arbitrary ids cannot escape the root.
type FS struct {
	root string // absolute path
}

var _ Store = (*FS)(nil)

// NewFS creates an FS store rooted at dir, creating the directory if needed.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("kvstore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: mkdir root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("kvstore: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("kvstore: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

func (f *FS) path(scope, key string) string {
	return filepath.Join(f.root, hex.EncodeToString([]byte(scope)), hex.EncodeToString([]byte(key)))
}

// Get reads the file for (scope, key).
func (f *FS) Get(_ context.Context, scope, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(scope, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: read: %w", err)
	}
	return data, nil
}

// Set atomically writes value: tmp file, fsync, rename.
func (f *FS) Set(_ context.Context, scope, key string, value []byte) error {
	abs := f.path(scope, key)
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kvstore: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".kv-tmp-*")
	if err != nil {
		return fmt.Errorf("kvstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("kvstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("kvstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kvstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("kvstore: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the file for (scope, key) if present.
func (f *FS) Delete(_ context.Context, scope, key string) error {
	if err := os.Remove(f.path(scope, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("kvstore: delete: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *FS) Close() error { return nil }
