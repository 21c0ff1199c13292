// Package memory implements storage.Store with an in-process map. It backs
// tests and ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
)

// Store is a map-backed key-value store safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Load retrieves the value for a key.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, apperrors.NotFound("storage key", key)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

// Save persists a value under a key.
func (s *Store) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.values[key] = cp
	return nil
}

// Delete removes a key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
