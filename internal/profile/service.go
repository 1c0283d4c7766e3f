// Package profile owns versioned profile persistence: loading, saving,
// schema migration, and the narrow mutators everything else goes
// through.
//
// Reads never fail. When storage is unavailable or holds garbage the
// service falls back to a fresh default profile, because a playable
// default beats an error screen. Writes report success as a bool; a
// false return means the profile in memory is ahead of storage.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/isotopelab/isotope/internal/adapters/storage"
	"github.com/isotopelab/isotope/internal/domain/catalog"
	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/domain/validation"
	"github.com/isotopelab/isotope/pkg/logger"
	"github.com/isotopelab/isotope/pkg/metrics"
)

// defaultStorageKey is the key profiles are stored under.
const defaultStorageKey = "isotope.playerProfile"

// Service is the profile persistence service.
type Service struct {
	store             storage.Store
	catalog           *catalog.Catalog
	startingElectrons int
	storageKey        string
	now               func() time.Time
	log               logger.Logger
}

// New creates a profile service with configuration options. A store and
// a catalog are required.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		storageKey: defaultStorageKey,
		now:        time.Now,
		log:        logger.Named("profile"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		return nil, errors.Join(ErrInvalidService, errors.New("store is required"))
	}
	if s.catalog == nil {
		return nil, errors.Join(ErrInvalidService, errors.New("catalog is required"))
	}

	return s, nil
}

// defaultProfile builds a fresh first-launch profile: the catalog's
// first element with the first period's game modes unlocked.
func (s *Service) defaultProfile() model.PlayerProfile {
	first := s.catalog.First()
	return model.NewDefaultProfile(s.now(), first.Symbol, s.catalog.PeriodGames(first.Period), s.startingElectrons)
}

// GetProfile loads the current profile. It never fails: missing,
// unreadable, or invalid records all yield a fresh default profile, and
// records at an older schema version are upgraded and written back.
func (s *Service) GetProfile(ctx context.Context) model.PlayerProfile {
	raw, err := s.store.Get(ctx, s.storageKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Info(ctx, "no stored profile, creating default")
		return s.createDefault(ctx)
	}
	if err != nil {
		// Storage itself failed; don't overwrite whatever might be there.
		metrics.RecordProfileLoadFailure()
		s.log.Warn(ctx, "profile load failed, using in-memory default", logger.Error(err))
		return s.defaultProfile()
	}

	env, migrated, err := s.deserialize(raw)
	if err != nil {
		metrics.RecordProfileLoadFailure()
		s.log.Warn(ctx, "stored profile unusable, resetting to default", logger.Error(err))
		return s.createDefault(ctx)
	}

	if migrated {
		if !s.SaveProfile(ctx, env.PlayerProfile) {
			s.log.Warn(ctx, "could not persist migrated profile",
				logger.String("profile_id", env.ID))
		}
	}

	metrics.RecordProfileLoad()
	return env.PlayerProfile
}

// createDefault builds and persists a fresh default profile.
func (s *Service) createDefault(ctx context.Context) model.PlayerProfile {
	p := s.defaultProfile()
	if !s.SaveProfile(ctx, p) {
		s.log.Warn(ctx, "could not persist default profile", logger.String("profile_id", p.ID))
	}
	return p
}

// SaveProfile validates and writes the profile, stamping the current
// schema version and refresh timestamps. Returns false when validation
// or storage refused the write; the caller's copy is untouched.
func (s *Service) SaveProfile(ctx context.Context, p model.PlayerProfile) bool {
	env := model.PersistedPlayerProfile{
		PlayerProfile: p.Clone(),
		SchemaVersion: model.CurrentSchemaVersion,
	}
	now := s.now()
	env.UpdatedAt = now
	env.Validation.LastValidated = now

	if result := validation.ValidatePersisted(&env); !result.Valid {
		metrics.RecordProfileSaveFailure()
		s.log.Error(ctx, "refusing to save invalid profile",
			logger.String("profile_id", p.ID),
			logger.Any("errors", result.Errors),
		)
		return false
	}

	raw, err := s.SerializeProfile(&env)
	if err != nil {
		metrics.RecordProfileSaveFailure()
		s.log.Error(ctx, "profile serialization failed", logger.Error(err))
		return false
	}
	if err := s.store.Set(ctx, s.storageKey, raw); err != nil {
		metrics.RecordProfileSaveFailure()
		s.log.Error(ctx, "profile write failed", logger.Error(err))
		return false
	}

	metrics.RecordProfileSave()
	return true
}

// ResetProfile discards the stored profile and starts over.
func (s *Service) ResetProfile(ctx context.Context) model.PlayerProfile {
	if err := s.store.Remove(ctx, s.storageKey); err != nil {
		s.log.Warn(ctx, "could not remove stored profile", logger.Error(err))
	}
	metrics.RecordProfileReset()
	s.log.Info(ctx, "profile reset")
	return s.createDefault(ctx)
}

// ProfileUpdate carries the fields updatable from outside the
// progression flow. Nil fields are left as they are.
type ProfileUpdate struct {
	DisplayName       *string
	TutorialCompleted *bool
}

// UpdateProfile applies an update atomically: if the updated profile
// would not validate, nothing is applied and the current profile is
// returned with ok=false.
func (s *Service) UpdateProfile(ctx context.Context, u ProfileUpdate) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	out := p.Clone()

	if u.DisplayName != nil {
		out.DisplayName = *u.DisplayName
	}
	if u.TutorialCompleted != nil {
		out.TutorialCompleted = *u.TutorialCompleted
	}

	if result := validation.ValidateProfile(&out); !result.Valid {
		s.log.Warn(ctx, "rejecting profile update", logger.Any("errors", result.Errors))
		return p, false
	}
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	return out, true
}

// UpdateLevel overwrites the level triple wholesale. The update is
// rejected when the result would not validate.
func (s *Service) UpdateLevel(ctx context.Context, level model.PlayerLevel) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	out := p.Clone()
	out.Level = level
	if result := validation.ValidateProfile(&out); !result.Valid {
		s.log.Warn(ctx, "rejecting level update", logger.Any("errors", result.Errors))
		return p, false
	}
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	return out, true
}

// SetCurrentElement moves the player to a known catalog element and
// keeps the atomic number in step. Unknown symbols are refused.
func (s *Service) SetCurrentElement(ctx context.Context, symbol string) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	element, err := s.catalog.BySymbol(symbol)
	if err != nil {
		s.log.Warn(ctx, "refusing unknown element", logger.String("symbol", symbol))
		return p, false
	}
	if p.CurrentElement == element.Symbol {
		return p, true
	}
	out := p.Clone()
	out.CurrentElement = element.Symbol
	out.Level.AtomicNumber = element.AtomicNumber
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	return out, true
}

// AwardElectrons credits the persisted balance. Non-positive amounts
// are refused with the profile unchanged.
func (s *Service) AwardElectrons(ctx context.Context, amount int) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	if amount <= 0 {
		return p, false
	}
	out := p.Clone()
	out.Electrons += amount
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	metrics.RecordElectronsEarned(amount)
	return out, true
}

// SpendElectrons debits the persisted balance. Overdrafts and
// non-positive amounts are refused with the profile unchanged.
func (s *Service) SpendElectrons(ctx context.Context, amount int) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	if amount <= 0 {
		return p, false
	}
	if amount > p.Electrons {
		metrics.RecordOverdraftRefused()
		return p, false
	}
	out := p.Clone()
	out.Electrons -= amount
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	metrics.RecordElectronsSpent(amount)
	return out, true
}

// RecordLogin stamps the last-login time and persists.
func (s *Service) RecordLogin(ctx context.Context) model.PlayerProfile {
	p := s.GetProfile(ctx)
	p.LastLogin = s.now()
	s.SaveProfile(ctx, p)
	return p
}

// CompleteTutorial marks the tutorial as done. Repeat calls are no-ops.
func (s *Service) CompleteTutorial(ctx context.Context) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	if p.TutorialCompleted {
		return p, false
	}
	p.TutorialCompleted = true
	if !s.SaveProfile(ctx, p) {
		return p, false
	}
	return p, true
}

// UnlockGameMode adds a game mode to the profile. Already-unlocked
// modes and unknown modes are no-ops, so replays never duplicate.
func (s *Service) UnlockGameMode(ctx context.Context, mode model.GameMode) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	if !mode.Valid() || p.HasGameMode(mode) {
		return p, false
	}
	out := p.Clone()
	out.UnlockedGames = append(out.UnlockedGames, mode)
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	metrics.RecordGameModeUnlock()
	return out, true
}

// AddAchievement records an achievement once. The unlock date is
// stamped if the caller left it zero. Duplicate IDs are no-ops.
func (s *Service) AddAchievement(ctx context.Context, a model.Achievement) (model.PlayerProfile, bool) {
	p := s.GetProfile(ctx)
	if a.ID == "" || p.HasAchievement(a.ID) {
		return p, false
	}
	if a.DateUnlocked.IsZero() {
		a.DateUnlocked = s.now()
	}
	if !a.Category.Valid() {
		a.Category = model.CategorySpecial
	}

	out := p.Clone()
	out.Achievements = append(out.Achievements, a)
	if !s.SaveProfile(ctx, out) {
		return p, false
	}
	metrics.RecordAchievementGrant()
	s.log.Info(ctx, "achievement unlocked",
		logger.String("achievement_id", a.ID),
		logger.String("name", a.Name),
	)
	return out, true
}

// SetElectrons overwrites the persisted electron balance, clamped at 0.
// The economy ledger is the authority; this keeps the stored profile in
// step with it.
func (s *Service) SetElectrons(ctx context.Context, balance int) (model.PlayerProfile, bool) {
	if balance < 0 {
		balance = 0
	}
	p := s.GetProfile(ctx)
	if p.Electrons == balance {
		return p, true
	}
	p.Electrons = balance
	if !s.SaveProfile(ctx, p) {
		return p, false
	}
	return p, true
}

// deserialize decodes and validates, reporting whether a schema
// migration happened so the caller can write the upgrade back.
func (s *Service) deserialize(raw string) (*model.PersistedPlayerProfile, bool, error) {
	env, err := s.DeserializeProfile(raw)
	if err != nil {
		return nil, false, err
	}
	// DeserializeProfile stamps the current version; whether it migrated
	// is visible from the raw record's own tag.
	migrated := !rawAtCurrentVersion(raw)
	return env, migrated, nil
}
