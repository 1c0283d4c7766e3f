// Package completions tracks which puzzles have been solved before and
// how long the current flawless streak is. The scoring engine turns
// these observations into bonus points.
package completions

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker records puzzle completions for bonus eligibility.
type Tracker interface {
	// FirstCompletion atomically checks whether puzzleID was completed
	// before and records it if not. Returns true only on the first
	// completion of that puzzle.
	FirstCompletion(ctx context.Context, puzzleID string) bool

	// RecordOutcome updates the flawless streak: a flawless solve
	// extends it, anything else resets it to zero.
	RecordOutcome(ctx context.Context, flawless bool)

	// Streak returns the current flawless streak length.
	Streak() int

	// Size returns the number of puzzle IDs currently remembered.
	Size() int64
}

// inMemoryTracker implements Tracker with a bounded seen set.
// When the set is full the oldest remembered puzzle ID is evicted, so a
// very old puzzle may count as "first" again. That is acceptable: the
// bonus is an incentive, not an accounting guarantee.
type inMemoryTracker struct {
	mu      sync.Mutex
	seen    map[string]bool
	order   []string // insertion ring, evicted front-first
	next    int      // ring write position once full
	maxSize int
	size    atomic.Int64
	streak  atomic.Int64
}

// NewInMemoryTracker creates a new in-memory tracker with configuration options.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: 50000, // default max size
	}

	// Apply all options
	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]bool)
	if t.maxSize > 0 {
		t.order = make([]string, 0, t.maxSize)
	}

	return t
}

// FirstCompletion atomically checks and records a puzzle completion.
func (t *inMemoryTracker) FirstCompletion(_ context.Context, puzzleID string) bool {
	if puzzleID == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen[puzzleID] {
		return false
	}

	if t.maxSize > 0 {
		if len(t.order) < t.maxSize {
			t.order = append(t.order, puzzleID)
		} else {
			// Ring is full: overwrite the oldest slot.
			delete(t.seen, t.order[t.next])
			t.order[t.next] = puzzleID
			t.next = (t.next + 1) % t.maxSize
			t.size.Add(-1)
		}
	}
	t.seen[puzzleID] = true
	t.size.Add(1)
	return true
}

// RecordOutcome updates the flawless streak counter.
func (t *inMemoryTracker) RecordOutcome(_ context.Context, flawless bool) {
	if flawless {
		t.streak.Add(1)
		return
	}
	t.streak.Store(0)
}

// Streak returns the current flawless streak length.
func (t *inMemoryTracker) Streak() int {
	return int(t.streak.Load())
}

// Size returns the number of puzzle IDs currently remembered.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
