// Package memory provides an in-process preference store.
package memory

import (
	"context"
	"sync"
)

type entry struct {
	scope string
	key   string
}

// Store keeps preferences in a map. The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	values map[entry]string
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[entry]string)}
}

// Get implements storage.Preferences.
func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[entry{scope: scope, key: key}]
	return value, ok, nil
}

// Set implements storage.Preferences.
func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[entry{scope: scope, key: key}] = value
	return nil
}
