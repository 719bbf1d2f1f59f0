package kvstore

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process store. Safe for concurrent access.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, scope, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

// Set stores a copy of value.
func (m *Memory) Set(_ context.Context, scope, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[scope] == nil {
		m.data[scope] = make(map[string][]byte)
	}
	m.data[scope][key] = append([]byte{}, value...)
	return nil
}

// Delete removes (scope, key).
func (m *Memory) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[scope], key)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
