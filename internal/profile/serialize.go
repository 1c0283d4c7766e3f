package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/domain/validation"
	"github.com/isotopelab/isotope/pkg/logger"
	"github.com/isotopelab/isotope/pkg/metrics"
)

// timeWireFormat is ISO 8601 with millisecond precision. Encoding at
// fixed precision keeps round trips exact: parse(format(t)) always
// equals t to the millisecond.
const timeWireFormat = "2006-01-02T15:04:05.000Z07:00"

func formatWireTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeWireFormat)
}

func parseWireTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{timeWireFormat, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

// Wire envelope. Dates travel as ISO 8601 strings because the domain
// types deliberately opt out of default time encoding.
type wireLevel struct {
	AtomicNumber int `json:"atomicNumber"`
	AtomicWeight int `json:"atomicWeight"`
	GameLab      int `json:"gameLab"`
}

type wireAchievement struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category"`
	ElectronReward int    `json:"electronReward"`
	DateUnlocked   string `json:"dateUnlocked"`
}

type wireValidation struct {
	LastValidated string `json:"lastValidated"`
}

type wireProfile struct {
	ID                string            `json:"id"`
	DisplayName       string            `json:"displayName"`
	Level             wireLevel         `json:"level"`
	CurrentElement    string            `json:"currentElement"`
	Electrons         int               `json:"electrons"`
	UnlockedGames     []string          `json:"unlockedGames"`
	Achievements      []wireAchievement `json:"achievements"`
	LastLogin         string            `json:"lastLogin"`
	TutorialCompleted bool              `json:"tutorialCompleted"`
	CreatedAt         string            `json:"createdAt"`
	UpdatedAt         string            `json:"updatedAt"`
	SchemaVersion     int               `json:"schemaVersion,omitempty"`
	Validation        *wireValidation   `json:"validation,omitempty"`
}

// SerializeProfile encodes a persisted envelope to its storage string.
// Achievements without an unlock date are refused: a record missing
// them would fail validation on the next load anyway.
func (s *Service) SerializeProfile(p *model.PersistedPlayerProfile) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: nil profile", ErrSerialize)
	}
	for _, a := range p.Achievements {
		if a.DateUnlocked.IsZero() {
			return "", fmt.Errorf("%w: achievement %q has no unlock date", ErrSerialize, a.ID)
		}
	}

	w := wireProfile{
		ID:                p.ID,
		DisplayName:       p.DisplayName,
		Level:             wireLevel(p.Level),
		CurrentElement:    p.CurrentElement,
		Electrons:         p.Electrons,
		UnlockedGames:     make([]string, 0, len(p.UnlockedGames)),
		Achievements:      make([]wireAchievement, 0, len(p.Achievements)),
		LastLogin:         formatWireTime(p.LastLogin),
		TutorialCompleted: p.TutorialCompleted,
		CreatedAt:         formatWireTime(p.CreatedAt),
		UpdatedAt:         formatWireTime(p.UpdatedAt),
		SchemaVersion:     p.SchemaVersion,
		Validation:        &wireValidation{LastValidated: formatWireTime(p.Validation.LastValidated)},
	}
	for _, g := range p.UnlockedGames {
		w.UnlockedGames = append(w.UnlockedGames, string(g))
	}
	for _, a := range p.Achievements {
		w.Achievements = append(w.Achievements, wireAchievement{
			ID:             a.ID,
			Name:           a.Name,
			Description:    a.Description,
			Category:       string(a.Category),
			ElectronReward: a.ElectronReward,
			DateUnlocked:   formatWireTime(a.DateUnlocked),
		})
	}

	raw, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return string(raw), nil
}

// DeserializeProfile decodes a storage string back into a persisted
// envelope. Records at an older schema version are migrated to the
// current one in place; records from a newer build are refused. The
// decoded envelope is validated before it is returned.
func (s *Service) DeserializeProfile(raw string) (*model.PersistedPlayerProfile, error) {
	var w wireProfile
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	out := &model.PersistedPlayerProfile{
		PlayerProfile: model.PlayerProfile{
			ID:                w.ID,
			DisplayName:       w.DisplayName,
			Level:             model.PlayerLevel(w.Level),
			CurrentElement:    w.CurrentElement,
			Electrons:         w.Electrons,
			UnlockedGames:     make([]model.GameMode, 0, len(w.UnlockedGames)),
			Achievements:      make([]model.Achievement, 0, len(w.Achievements)),
			TutorialCompleted: w.TutorialCompleted,
		},
		SchemaVersion: w.SchemaVersion,
	}
	for _, g := range w.UnlockedGames {
		out.UnlockedGames = append(out.UnlockedGames, model.GameMode(g))
	}

	var err error
	if out.LastLogin, err = parseWireTime(w.LastLogin); err != nil {
		return nil, fmt.Errorf("%w: lastLogin: %v", ErrDeserialize, err)
	}
	if out.CreatedAt, err = parseWireTime(w.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: createdAt: %v", ErrDeserialize, err)
	}
	if out.UpdatedAt, err = parseWireTime(w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: updatedAt: %v", ErrDeserialize, err)
	}
	for _, a := range w.Achievements {
		date, err := parseWireTime(a.DateUnlocked)
		if err != nil {
			return nil, fmt.Errorf("%w: achievement %q dateUnlocked: %v", ErrDeserialize, a.ID, err)
		}
		out.Achievements = append(out.Achievements, model.Achievement{
			ID:             a.ID,
			Name:           a.Name,
			Description:    a.Description,
			Category:       model.AchievementCategory(a.Category),
			ElectronReward: a.ElectronReward,
			DateUnlocked:   date,
		})
	}
	if w.Validation != nil {
		if out.Validation.LastValidated, err = parseWireTime(w.Validation.LastValidated); err != nil {
			return nil, fmt.Errorf("%w: validation.lastValidated: %v", ErrDeserialize, err)
		}
	}

	// Records written before versioning carry no tag at all.
	if out.SchemaVersion == 0 {
		out.SchemaVersion = model.OldestSchemaVersion
	}
	if out.SchemaVersion > model.CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: %d (this build understands up to %d)",
			ErrUnknownSchema, out.SchemaVersion, model.CurrentSchemaVersion)
	}
	if out.SchemaVersion < model.CurrentSchemaVersion {
		s.migrate(out)
	}

	if result := validation.ValidatePersisted(out); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(result.Errors, "; "))
	}
	return out, nil
}

// rawAtCurrentVersion probes a stored record's own schema tag.
func rawAtCurrentVersion(raw string) bool {
	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return false
	}
	return probe.SchemaVersion == model.CurrentSchemaVersion
}

// migrate upgrades an older envelope to the current schema in place.
// Version 1 predates achievement categories and validation metadata.
func (s *Service) migrate(p *model.PersistedPlayerProfile) {
	from := p.SchemaVersion

	for i := range p.Achievements {
		if !p.Achievements[i].Category.Valid() {
			p.Achievements[i].Category = model.CategoryProgression
		}
	}
	if p.Validation.LastValidated.IsZero() {
		p.Validation.LastValidated = s.now()
	}
	p.SchemaVersion = model.CurrentSchemaVersion
	p.UpdatedAt = s.now()

	metrics.RecordSchemaMigration()
	s.log.Info(context.Background(), "migrated profile schema",
		logger.String("profile_id", p.ID),
		logger.Int("from_version", from),
		logger.Int("to_version", model.CurrentSchemaVersion),
	)
}
