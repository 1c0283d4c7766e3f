package transition

import (
	"time"

	"github.com/isotopelab/isotope/internal/domain/progression"
)

// State is the lifecycle stage of a visual transition.
type State string

const (
	// StatePending means the transition was created but not yet animated.
	StatePending State = "PENDING"
	// StateAnimating means the front end is playing the transition.
	StateAnimating State = "ANIMATING"
	// StateCompleted means the transition finished and left the active set.
	StateCompleted State = "COMPLETED"
)

// Transition is a progression event dressed for announcement: the event
// payload plus a lifecycle the UI can drive.
type Transition struct {
	ID        string            `json:"id"`
	State     State             `json:"state"`
	Event     progression.Event `json:"event"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Subscriber receives transition lifecycle notifications. Calls are
// synchronous and in subscription order; a slow subscriber slows the
// publisher.
type Subscriber func(Transition)
