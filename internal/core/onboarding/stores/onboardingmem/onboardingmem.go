// Package onboardingmem keeps onboarding state in process memory.
package onboardingmem

import (
	"context"
	"sync"
)

// Store is a concurrency safe in-memory key/value store.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

// Get returns the value under key and whether it exists.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Remove deletes key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
