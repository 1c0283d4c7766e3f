// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Schema versions for the persisted profile envelope.
const (
	// CurrentSchemaVersion is stamped on every save.
	CurrentSchemaVersion = 2
	// OldestSchemaVersion is assumed for records missing a version tag.
	OldestSchemaVersion = 1
)

// PlayerLevel tracks a player's position in the element catalog.
type PlayerLevel struct {
	AtomicNumber int `json:"atomicNumber"` // mirrors the current element's position
	AtomicWeight int `json:"atomicWeight"` // puzzles completed; reset on each advance
	GameLab      int `json:"gameLab"`      // period boundaries crossed
}

// AchievementCategory is the closed set of achievement groupings.
type AchievementCategory string

const (
	CategoryProgression AchievementCategory = "progression"
	CategoryPuzzle      AchievementCategory = "puzzle"
	CategoryCollection  AchievementCategory = "collection"
	CategorySpecial     AchievementCategory = "special"
)

// Valid reports whether the category is one of the closed set.
func (c AchievementCategory) Valid() bool {
	switch c {
	case CategoryProgression, CategoryPuzzle, CategoryCollection, CategorySpecial:
		return true
	}
	return false
}

// Achievement is an unlocked achievement record, unique by ID per profile.
type Achievement struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Category       AchievementCategory `json:"category"`
	ElectronReward int                 `json:"electronReward"`
	DateUnlocked   time.Time           `json:"-"`
}

// PlayerProfile is the aggregate root for all player state.
// It is mutated exclusively through the progression, economy, and
// persistence services; nothing patches it ad hoc.
type PlayerProfile struct {
	ID                string        `json:"id"`
	DisplayName       string        `json:"displayName"`
	Level             PlayerLevel   `json:"level"`
	CurrentElement    string        `json:"currentElement"`
	Electrons         int           `json:"electrons"`
	UnlockedGames     []GameMode    `json:"unlockedGames"`
	Achievements      []Achievement `json:"achievements"`
	LastLogin         time.Time     `json:"-"`
	TutorialCompleted bool          `json:"tutorialCompleted"`
	CreatedAt         time.Time     `json:"-"`
	UpdatedAt         time.Time     `json:"-"`
}

// ValidationMeta records when the envelope was last validated.
type ValidationMeta struct {
	LastValidated time.Time `json:"-"`
}

// PersistedPlayerProfile is the envelope actually written to storage:
// the profile plus persistence metadata.
type PersistedPlayerProfile struct {
	PlayerProfile
	SchemaVersion int            `json:"schemaVersion"`
	Validation    ValidationMeta `json:"validation"`
}

// NewDefaultProfile builds the first-launch profile: first catalog element,
// all-zero level, tutorial not completed.
func NewDefaultProfile(now time.Time, firstElement string, startingGames []GameMode, startingElectrons int) PlayerProfile {
	games := make([]GameMode, len(startingGames))
	copy(games, startingGames)
	if startingElectrons < 0 {
		startingElectrons = 0
	}
	return PlayerProfile{
		ID:             uuid.NewString(),
		DisplayName:    "New Scientist",
		Level:          PlayerLevel{AtomicNumber: 1},
		CurrentElement: firstElement,
		Electrons:      startingElectrons,
		UnlockedGames:  games,
		Achievements:   []Achievement{},
		LastLogin:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Clone deep-copies the profile so pure transition functions can return
// modified copies without aliasing the caller's slices.
func (p PlayerProfile) Clone() PlayerProfile {
	out := p
	out.UnlockedGames = make([]GameMode, len(p.UnlockedGames))
	copy(out.UnlockedGames, p.UnlockedGames)
	out.Achievements = make([]Achievement, len(p.Achievements))
	copy(out.Achievements, p.Achievements)
	return out
}

// HasAchievement reports whether an achievement id is already recorded.
func (p PlayerProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// HasGameMode reports whether a game mode is already unlocked.
func (p PlayerProfile) HasGameMode(mode GameMode) bool {
	for _, g := range p.UnlockedGames {
		if g == mode {
			return true
		}
	}
	return false
}
