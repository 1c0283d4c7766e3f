package transition

import "time"

// Option applies a configuration option to the InMemoryBus.
type Option func(*InMemoryBus)

// WithReducedMotion makes every published transition complete
// immediately, for players who disable animations.
func WithReducedMotion(enabled bool) Option {
	return func(b *InMemoryBus) {
		b.reducedMotion = enabled
	}
}

// WithClock sets the time source used for transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *InMemoryBus) {
		if now != nil {
			b.now = now
		}
	}
}
