// Package completions tracks puzzle completions for bonus eligibility.
package completions

// Option applies a configuration option to the tracker.
type Option func(*inMemoryTracker)

// WithMaxSize sets the maximum number of puzzle IDs to remember.
// Zero or negative means unbounded.
func WithMaxSize(size int) Option {
	return func(t *inMemoryTracker) {
		t.maxSize = size
	}
}
