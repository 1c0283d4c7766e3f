// Package storage provides the key/value persistence backends for
// serialized player profiles. Two implementations exist: an in-memory
// store for tests and ephemeral runs, and a SQLite store for durable
// local persistence.
package storage

import (
	"context"
	"errors"
)

// Store errors.
var (
	// ErrNotFound indicates the key has no stored value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrUnavailable indicates the backend refused the operation.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Store is a flat string key/value store. Values are opaque to the
// store; the persistence service above it owns serialization.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
