// Package session maps browsing session ids to their favorites.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/starford/recipebook/internal/favorites"
	"github.com/starford/recipebook/internal/kvstore"
)

// CookieName is the cookie carrying the session id.
const CookieName = "recipebook_session"

// DefaultCapacity is the number of sessions held in memory when no
// capacity is configured.
const DefaultCapacity = 10000

// Registry lazily restores one favorites store per session id. At most
// capacity stores stay in memory; the least recently used is dropped and
// restored from the key-value store on its next request. Safe for
// concurrent use.
type Registry struct {
	kv  kvstore.Store
	log *slog.Logger

	mu     sync.Mutex
	stores *lru.Cache[string, *favorites.Store]
}

// RegistryOption configures NewRegistry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	capacity int
}

// WithCapacity bounds the number of in-memory sessions. n <= 0 keeps
// DefaultCapacity.
func WithCapacity(n int) RegistryOption {
	return func(o *registryOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// NewRegistry creates a registry backed by kv.
func NewRegistry(kv kvstore.Store, logger *slog.Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	o := registryOptions{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	// lru.New only fails for a non-positive size.
	stores, _ := lru.New[string, *favorites.Store](o.capacity)
	return &Registry{
		kv:     kv,
		log:    logger,
		stores: stores,
	}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID would produce.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Favorites returns the store for id, restoring it on first use.
func (r *Registry) Favorites(ctx context.Context, id string) *favorites.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores.Get(id); ok {
		return s
	}
	s := favorites.Restore(ctx, r.kv, id, r.log)
	if r.stores.Add(id, s) {
		r.log.Debug("session evicted", slog.Int("sessions", r.stores.Len()))
	}
	r.log.Debug("session restored", slog.String("session", id), slog.Int("favorites", s.Len()))
	return s
}

// Len returns the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores.Len()
}

type ctxKey struct{}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id stored by WithID, or "".
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
