// Package favorites tracks the recipe ids a session has marked favorite and
// persists them, best effort, to a key-value byte store.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/starford/recipebook/internal/kvstore"
)

// StorageKey is the fixed key the set is persisted under.
const StorageKey = "My_favs"

// Store is one session's FavoriteSet. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	ids   map[string]struct{}
	kv    kvstore.Store
	scope string
	log   *slog.Logger
}

// Restore loads the set persisted for scope. Missing or unreadable data
// yields an empty set; only unexpected failures are logged.
func Restore(ctx context.Context, kv kvstore.Store, scope string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		ids:   make(map[string]struct{}),
		kv:    kv,
		scope: scope,
		log:   logger,
	}

	data, err := kv.Get(ctx, scope, StorageKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return s
	case err != nil:
		logger.Warn("failed to load favorites", slog.String("scope", scope), slog.String("error", err.Error()))
		return s
	}

	ids, err := decode(data)
	if err != nil {
		logger.Warn("failed to load favorites", slog.String("scope", scope), slog.String("error", err.Error()))
		return s
	}
	s.ids = ids
	return s
}

// IsFavorite reports whether id is in the set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Toggle flips membership of id, persists the whole set and returns the
// new membership. A failed write is logged and otherwise ignored; the
// in-memory change stands.
func (s *Store) Toggle(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.ids[id]
	if present {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.saveLocked(ctx)
	return !present
}

// IDs returns the favorite ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Store) saveLocked(ctx context.Context) {
	data, err := encode(s.ids)
	if err == nil {
		err = s.kv.Set(ctx, s.scope, StorageKey, data)
	}
	if err != nil {
		s.log.Warn("failed to save favorites", slog.String("scope", s.scope), slog.String("error", err.Error()))
	}
}

// encode serializes the set as a JSON object of id -> true.
func encode(ids map[string]struct{}) ([]byte, error) {
	m := make(map[string]bool, len(ids))
	for id := range ids {
		m[id] = true
	}
	return json.Marshal(m)
}

// decode accepts the id -> marker object. Only truthy markers count.
func decode(data []byte) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(data) == 0 {
		return out, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for id, v := range raw {
		if truthy(v) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
