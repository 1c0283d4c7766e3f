// Package validation provides pure structural validators for player
// profiles and their persisted envelopes.
//
// Validators accumulate every failing check into the result's error list
// rather than short-circuiting; only the initial nil gate stops early.
// They hold no state and are safe to call concurrently.
package validation

import (
	"fmt"
	"regexp"

	"github.com/isotopelab/isotope/internal/domain/model"
)

// symbolShape matches an element symbol: one uppercase letter optionally
// followed by one lowercase letter. Shape only; catalog membership is the
// progression engine's concern.
var symbolShape = regexp.MustCompile(`^[A-Z][a-z]?$`)

// Result is the structured outcome of a validation pass.
type Result struct {
	Valid  bool
	Errors []string
}

func (r *Result) addf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateProfile checks the structural integrity of a player profile.
func ValidateProfile(p *model.PlayerProfile) Result {
	var r Result
	if p == nil {
		r.addf("profile is nil")
		return r
	}

	if p.ID == "" {
		r.addf("id must be a non-empty string")
	}
	if p.DisplayName == "" {
		r.addf("displayName must be a non-empty string")
	}
	if p.Level.AtomicNumber < 0 {
		r.addf("level.atomicNumber must not be negative")
	}
	if p.Level.AtomicWeight < 0 {
		r.addf("level.atomicWeight must not be negative")
	}
	if p.Level.GameLab < 0 {
		r.addf("level.gameLab must not be negative")
	}
	if !symbolShape.MatchString(p.CurrentElement) {
		r.addf("currentElement %q is not a valid element symbol", p.CurrentElement)
	}
	if p.Electrons < 0 {
		r.addf("electrons must not be negative")
	}

	seenModes := make(map[model.GameMode]bool, len(p.UnlockedGames))
	for _, g := range p.UnlockedGames {
		if !g.Valid() {
			r.addf("unlockedGames contains unknown mode %q", g)
		}
		if seenModes[g] {
			r.addf("unlockedGames contains duplicate mode %q", g)
		}
		seenModes[g] = true
	}

	seenIDs := make(map[string]bool, len(p.Achievements))
	for i, a := range p.Achievements {
		if a.ID == "" {
			r.addf("achievements[%d] has no id", i)
		}
		if a.Name == "" {
			r.addf("achievements[%d] has no name", i)
		}
		if a.DateUnlocked.IsZero() {
			r.addf("achievements[%d] has no dateUnlocked", i)
		}
		if a.ID != "" && seenIDs[a.ID] {
			r.addf("achievements contains duplicate id %q", a.ID)
		}
		seenIDs[a.ID] = true
	}

	if p.LastLogin.IsZero() {
		r.addf("lastLogin is not a valid date")
	}
	if p.CreatedAt.IsZero() {
		r.addf("createdAt is not a valid date")
	}
	if p.UpdatedAt.IsZero() {
		r.addf("updatedAt is not a valid date")
	}

	r.Valid = len(r.Errors) == 0
	return r
}

// ValidatePersisted checks a persisted envelope: the profile checks plus
// the persistence metadata. A schema version below current is reported as
// a needs-upgrade error; the upgrade itself happens one layer up, in the
// persistence service.
func ValidatePersisted(p *model.PersistedPlayerProfile) Result {
	var r Result
	if p == nil {
		r.addf("persisted profile is nil")
		return r
	}

	r = ValidateProfile(&p.PlayerProfile)

	if p.SchemaVersion < model.OldestSchemaVersion {
		r.addf("schemaVersion %d is not a known version", p.SchemaVersion)
	} else if p.SchemaVersion < model.CurrentSchemaVersion {
		r.addf("schemaVersion %d needs upgrade to %d", p.SchemaVersion, model.CurrentSchemaVersion)
	}
	if p.Validation.LastValidated.IsZero() {
		r.addf("validation.lastValidated is missing")
	}

	r.Valid = len(r.Errors) == 0
	return r
}
