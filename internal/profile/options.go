package profile

import (
	"time"

	"github.com/isotopelab/isotope/internal/adapters/storage"
	"github.com/isotopelab/isotope/internal/domain/catalog"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend. Required.
func WithStore(store storage.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithCatalog sets the element catalog used for default profiles. Required.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = cat
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

// WithStorageKey overrides the key the profile is stored under.
func WithStorageKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
