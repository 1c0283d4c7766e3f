package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store with a mutex-guarded map. The fault
// options let tests exercise the degraded paths a browser exercises
// when localStorage is full or corrupted.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	failGets bool
	failSets bool
}

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		values: make(map[string]string),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithFailGets makes every Get fail with ErrUnavailable.
func WithFailGets() MemoryOption {
	return func(s *MemoryStore) { s.failGets = true }
}

// WithFailSets makes every Set fail with ErrUnavailable.
func WithFailSets() MemoryOption {
	return func(s *MemoryStore) { s.failSets = true }
}

// WithSeed preloads a key/value pair, bypassing the fault switches.
func WithSeed(key, value string) MemoryOption {
	return func(s *MemoryStore) { s.values[key] = value }
}

// Get returns the value for key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failGets {
		return "", fmt.Errorf("%w: get %q", ErrUnavailable, key)
	}
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

// Set writes the value for key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSets {
		return fmt.Errorf("%w: set %q", ErrUnavailable, key)
	}
	s.values[key] = value
	return nil
}

// Remove deletes the key.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
