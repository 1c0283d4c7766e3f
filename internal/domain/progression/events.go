package progression

import "github.com/isotopelab/isotope/internal/domain/model"

// EventType identifies a progression side effect worth announcing.
type EventType string

const (
	EventAtomicWeightAwarded EventType = "ATOMIC_WEIGHT_AWARDED"
	EventElementAdvance      EventType = "ELEMENT_ADVANCE"
	EventPeriodComplete      EventType = "PERIOD_COMPLETE"
	EventGameModeUnlock      EventType = "GAME_MODE_UNLOCK"
	EventAchievementUnlock   EventType = "ACHIEVEMENT_UNLOCK"
)

// Event is one progression side effect, emitted in the order it
// happened. A single award can produce a whole cascade: weight, then one
// or more advances, period completions, and game unlocks.
type Event struct {
	Type          EventType      `json:"type"`
	FromElement   string         `json:"fromElement,omitempty"`
	ToElement     string         `json:"toElement,omitempty"`
	Period        int              `json:"period,omitempty"`
	Amount        int              `json:"amount,omitempty"`
	Mode          model.GameMode   `json:"mode,omitempty"`
	Modes         []model.GameMode `json:"modes,omitempty"`
	AchievementID string           `json:"achievementId,omitempty"`
}
