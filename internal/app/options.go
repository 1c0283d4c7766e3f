package service

import (
	"time"

	"github.com/isotopelab/isotope/internal/adapters/storage"
	"github.com/isotopelab/isotope/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a pre-built storage backend. When set, the storage
// driver and path options are ignored.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithStorageDriver selects the storage backend ("memory" or "sqlite").
func WithStorageDriver(driver string) Option {
	return func(s *Service) {
		if driver != "" {
			s.storageDriver = driver
		}
	}
}

// WithStoragePath sets the SQLite database path.
func WithStoragePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.storagePath = path
		}
	}
}

// WithCatalogPath loads the element catalog from a YAML file instead of
// the embedded default.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithStartingElectrons sets the balance granted to new profiles.
func WithStartingElectrons(amount int) Option {
	return func(s *Service) {
		if amount >= 0 {
			s.startingElectrons = amount
		}
	}
}

// WithElementMultiplier sets the per-atomic-number scoring scale.
func WithElementMultiplier(multiplier float64) Option {
	return func(s *Service) {
		if multiplier >= 0 {
			s.elementMultiplier = multiplier
		}
	}
}

// WithReducedMotion completes every transition immediately on publish.
func WithReducedMotion(enabled bool) Option {
	return func(s *Service) {
		s.reducedMotion = enabled
	}
}

// WithCompletionCacheSize bounds the first-completion tracker.
func WithCompletionCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.completionCacheSize = size
		}
	}
}

// WithMaxHistoryLimit caps transaction history responses.
func WithMaxHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxHistoryLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock sets the time source for the service and its components.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
