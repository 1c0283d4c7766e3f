// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// StorageDriver selects the profile store backend: "memory" or "sqlite".
	StorageDriver string `koanf:"storage_driver"`

	// StoragePath locates the SQLite database when the sqlite driver is used.
	StoragePath string `koanf:"storage_path"`

	// CatalogPath optionally overrides the embedded element catalog.
	CatalogPath string `koanf:"catalog_path"`

	// StartingElectrons seeds new player balances.
	StartingElectrons int `koanf:"starting_electrons"`

	// ElementMultiplier scales puzzle points per atomic number beyond the first.
	ElementMultiplier float64 `koanf:"element_multiplier"`

	// ReducedMotion completes transitions synchronously on creation.
	ReducedMotion bool `koanf:"reduced_motion"`

	// MaxHistoryLimit caps GET /economy/history?limit.
	MaxHistoryLimit int `koanf:"max_history_limit"`

	// CompletionCacheSize bounds the first-completion tracker.
	CompletionCacheSize int `koanf:"completion_cache_size"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":8090",
		StorageDriver:       "sqlite",
		StoragePath:         "~/.isotope/profile.db",
		CatalogPath:         "",
		StartingElectrons:   0,
		ElementMultiplier:   0.1,
		ReducedMotion:       false,
		MaxHistoryLimit:     100,
		CompletionCacheSize: 50_000,
	}
	return c
}
