// Package transition announces progression events to UI subscribers and
// tracks each announcement through a small lifecycle. Subscribers are
// notified synchronously and in order, so a progression cascade arrives
// exactly as it happened.
package transition

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isotopelab/isotope/internal/domain/progression"
	"github.com/isotopelab/isotope/pkg/metrics"
)

// Bus is the transition pub/sub surface.
type Bus interface {
	// Subscribe registers a subscriber and returns its unsubscribe func.
	Subscribe(fn Subscriber) (unsubscribe func())

	// Publish creates a transition for the event, notifies subscribers,
	// and returns the created transition. With reduced motion enabled the
	// transition completes immediately and never enters the active set.
	Publish(ctx context.Context, event progression.Event) Transition

	// Start moves a pending transition to ANIMATING. Unknown IDs are a no-op.
	Start(ctx context.Context, id string)

	// Complete moves a transition to COMPLETED and drops it from the
	// active set. Unknown IDs are a no-op.
	Complete(ctx context.Context, id string)

	// Active returns the transitions not yet completed, oldest first.
	Active(ctx context.Context) []Transition
}

type subscription struct {
	id int
	fn Subscriber
}

// InMemoryBus implements Bus with a mutex-guarded active set.
type InMemoryBus struct {
	mu            sync.Mutex
	subscribers   []subscription
	nextSubID     int
	active        map[string]*Transition
	order         []string // creation order of active transition IDs
	reducedMotion bool
	now           func() time.Time
}

// NewInMemoryBus creates a new in-memory transition bus with configuration options.
func NewInMemoryBus(opts ...Option) *InMemoryBus {
	b := &InMemoryBus{
		active: make(map[string]*Transition),
		now:    time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers a subscriber. The returned func removes it; calling
// it more than once is harmless.
func (b *InMemoryBus) Subscribe(fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSubID++
	id := b.nextSubID
	b.subscribers = append(b.subscribers, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Publish creates and announces a transition for the event.
func (b *InMemoryBus) Publish(_ context.Context, event progression.Event) Transition {
	b.mu.Lock()

	t := Transition{
		ID:        uuid.NewString(),
		State:     StatePending,
		Event:     event,
		CreatedAt: b.now(),
	}
	metrics.RecordTransitionCreated()

	if b.reducedMotion {
		// No animation to wait for: announce creation, then complete in
		// place without ever entering the active set.
		subs := b.snapshot()
		b.mu.Unlock()

		notify(subs, t)
		t.State = StateCompleted
		metrics.RecordTransitionCompleted()
		notify(subs, t)
		return t
	}

	stored := t
	b.active[t.ID] = &stored
	b.order = append(b.order, t.ID)
	metrics.UpdateActiveTransitions(len(b.active))
	subs := b.snapshot()
	b.mu.Unlock()

	notify(subs, t)
	return t
}

// Start moves a pending transition to ANIMATING.
func (b *InMemoryBus) Start(_ context.Context, id string) {
	b.mu.Lock()

	t, ok := b.active[id]
	if !ok || t.State != StatePending {
		b.mu.Unlock()
		return
	}
	t.State = StateAnimating
	out := *t
	subs := b.snapshot()
	b.mu.Unlock()

	notify(subs, out)
}

// Complete finishes a transition and removes it from the active set.
func (b *InMemoryBus) Complete(_ context.Context, id string) {
	b.mu.Lock()

	t, ok := b.active[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.active, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	t.State = StateCompleted
	out := *t
	metrics.RecordTransitionCompleted()
	metrics.UpdateActiveTransitions(len(b.active))
	subs := b.snapshot()
	b.mu.Unlock()

	notify(subs, out)
}

// Active returns the not-yet-completed transitions, oldest first.
func (b *InMemoryBus) Active(_ context.Context) []Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Transition, 0, len(b.order))
	for _, id := range b.order {
		if t, ok := b.active[id]; ok {
			out = append(out, *t)
		}
	}
	return out
}

// snapshot copies the subscriber list so notification can run unlocked.
// Must be called with b.mu held.
func (b *InMemoryBus) snapshot() []subscription {
	subs := make([]subscription, len(b.subscribers))
	copy(subs, b.subscribers)
	return subs
}

func notify(subs []subscription, t Transition) {
	for _, s := range subs {
		s.fn(t)
	}
}
