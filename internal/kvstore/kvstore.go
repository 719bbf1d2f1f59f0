// Package kvstore provides session-scoped key-value byte storage with
// SQLite, file-system and in-memory backends.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kvstore: not found")

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFS     = "fs"
	BackendMemory = "memory"
)

// Store reads and writes opaque byte values. A scope partitions keys,
// typically by session id.
type Store interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	Close() error
}

// Open constructs the named backend. path is the database file for sqlite
// and the root directory for fs; it is ignored for memory.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendFS:
		return NewFS(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", backend)
	}
}
