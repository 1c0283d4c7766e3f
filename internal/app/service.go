// Package service composes the progression system and implements the
// dependencies required by the HTTP API: puzzle completion, profile
// access, economy reads, and transition announcements.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/isotopelab/isotope/internal/adapters/storage"
	"github.com/isotopelab/isotope/internal/adapters/transition"
	"github.com/isotopelab/isotope/internal/domain/catalog"
	"github.com/isotopelab/isotope/internal/domain/completions"
	"github.com/isotopelab/isotope/internal/domain/economy"
	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/domain/progression"
	"github.com/isotopelab/isotope/internal/domain/scoring"
	"github.com/isotopelab/isotope/internal/profile"
	"github.com/isotopelab/isotope/pkg/logger"
	"github.com/isotopelab/isotope/pkg/metrics"
)

// Service implements the progression system end to end.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  *catalog.Catalog
	store    storage.Store
	profiles *profile.Service
	ledger   economy.Ledger
	scorer   *scoring.Engine
	progress *progression.Engine
	tracker  completions.Tracker
	bus      *transition.InMemoryBus

	// Configuration
	storageDriver       string
	storagePath         string
	catalogPath         string
	startingElectrons   int
	elementMultiplier   float64
	reducedMotion       bool
	completionCacheSize int
	maxHistoryLimit     int
	now                 func() time.Time

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storageDriver:       "memory",
		elementMultiplier:   0.1,
		completionCacheSize: 50000,
		maxHistoryLimit:     100,
		now:                 time.Now,
		logger:              nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting progression service...")

	var err error
	if s.catalogPath != "" {
		s.catalog, err = catalog.LoadFile(s.catalogPath)
	} else {
		s.catalog, err = catalog.Default()
	}
	if err != nil {
		return fmt.Errorf("service: catalog: %w", err)
	}

	if s.store == nil {
		switch s.storageDriver {
		case "sqlite":
			s.store, err = storage.OpenSQLite(s.storagePath)
			if err != nil {
				return fmt.Errorf("service: storage: %w", err)
			}
			s.logger.Info(ctx, "using sqlite store", logger.String("path", s.storagePath))
		default:
			s.store = storage.NewMemoryStore()
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	s.profiles, err = profile.New(
		profile.WithStore(s.store),
		profile.WithCatalog(s.catalog),
		profile.WithStartingElectrons(s.startingElectrons),
		profile.WithClock(s.now),
	)
	if err != nil {
		return fmt.Errorf("service: profiles: %w", err)
	}

	s.ledger = economy.NewInMemoryLedger(
		economy.WithClock(s.now),
	)
	s.scorer = scoring.NewEngine(
		scoring.WithElementMultiplier(s.elementMultiplier),
	)
	s.progress = progression.NewEngine(s.catalog)
	s.tracker = completions.NewInMemoryTracker(
		completions.WithMaxSize(s.completionCacheSize),
	)
	s.bus = transition.NewInMemoryBus(
		transition.WithReducedMotion(s.reducedMotion),
		transition.WithClock(s.now),
	)

	// Seed the ledger from the persisted balance.
	p := s.profiles.GetProfile(ctx)
	s.ledger.Initialize(ctx, p.ID, p.Electrons)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "progression service started",
		logger.String("element", p.CurrentElement),
		logger.Int("electrons", p.Electrons),
		logger.Int("maxAtomicNumber", s.catalog.MaxAtomicNumber()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping progression service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "progression service stopped")
}

// PuzzleCompletion is a finished puzzle reported by the game.
type PuzzleCompletion struct {
	PuzzleID         string           `json:"puzzleId"`
	Mode             model.GameMode   `json:"mode"`
	Difficulty       model.Difficulty `json:"difficulty"`
	Perfect          bool             `json:"perfect"`
	TimeLimitSeconds float64          `json:"timeLimitSeconds"`
	TimeTakenSeconds float64          `json:"timeTakenSeconds"`
}

// CompletionResult is everything one puzzle completion produced.
type CompletionResult struct {
	Points          int                     `json:"points"`
	BasePoints      int                     `json:"basePoints"`
	FirstCompletion bool                    `json:"firstCompletion"`
	Streak          int                     `json:"streak"`
	Reward          economy.Reward          `json:"reward"`
	Balance         int                     `json:"balance"`
	Events          []progression.Event     `json:"events"`
	Transitions     []transition.Transition `json:"transitions"`
	Profile         model.PlayerProfile     `json:"profile"`
	Saved           bool                    `json:"saved"`
}

// CompletePuzzle runs the full reward pipeline for one finished puzzle:
// score it, apply completion bonuses, pay out electrons, award atomic
// weight with its advancement cascade, persist, and announce.
func (s *Service) CompletePuzzle(ctx context.Context, c PuzzleCompletion) (CompletionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return CompletionResult{}, ErrNotStarted
	}
	if c.PuzzleID == "" {
		return CompletionResult{}, fmt.Errorf("%w: missing puzzle id", ErrInvalidCompletion)
	}
	if !c.Mode.Valid() {
		return CompletionResult{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidCompletion, c.Mode)
	}
	if !c.Difficulty.Valid() {
		return CompletionResult{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidCompletion, c.Difficulty)
	}

	p := s.profiles.GetProfile(ctx)
	if !p.HasGameMode(c.Mode) {
		return CompletionResult{}, fmt.Errorf("%w: %s", ErrModeLocked, c.Mode)
	}

	puzzle := scoring.Puzzle{
		ID:               c.PuzzleID,
		Mode:             c.Mode,
		Difficulty:       c.Difficulty,
		TimeLimitSeconds: c.TimeLimitSeconds,
	}
	result := scoring.Result{
		Perfect:          c.Perfect,
		TimeTakenSeconds: c.TimeTakenSeconds,
	}
	points := s.scorer.CalculatePuzzlePoints(puzzle, result, p.Level.AtomicNumber)

	first := s.tracker.FirstCompletion(ctx, c.PuzzleID)
	s.tracker.RecordOutcome(ctx, c.Perfect)
	streak := s.tracker.Streak()

	total := s.scorer.CalculateBonusPoints(points, scoring.Bonuses{
		FirstCompletion: first,
		FlawlessStreak:  c.Perfect && streak > 0,
		StreakLength:    streak,
	})

	reward := s.ledger.CalculatePuzzleReward(c.Perfect, c.Difficulty)
	s.ledger.Add(ctx, p.ID, reward.Electrons, model.SourcePuzzleReward,
		fmt.Sprintf("puzzle %s (%s/%s)", c.PuzzleID, c.Mode, c.Difficulty))

	updated, events, err := s.progress.AwardAtomicWeight(p, total)
	if err != nil {
		return CompletionResult{}, err
	}
	updated.Electrons = s.ledger.Balance(ctx, p.ID)

	saved := s.profiles.SaveProfile(ctx, updated)
	if !saved {
		s.logger.Warn(ctx, "puzzle completion not persisted",
			logger.String("puzzleId", c.PuzzleID))
	}

	transitions := make([]transition.Transition, 0, len(events))
	for _, e := range events {
		transitions = append(transitions, s.bus.Publish(ctx, e))
	}

	metrics.RecordPuzzleScored(total)
	if c.Perfect {
		metrics.RecordPerfectSolve()
	}

	s.logger.Info(ctx, "puzzle completed",
		logger.String("puzzleId", c.PuzzleID),
		logger.String("mode", string(c.Mode)),
		logger.Int("points", total),
		logger.Int("electrons", reward.Electrons),
		logger.Bool("perfect", c.Perfect),
	)

	return CompletionResult{
		Points:          total,
		BasePoints:      points,
		FirstCompletion: first,
		Streak:          streak,
		Reward:          reward,
		Balance:         updated.Electrons,
		Events:          events,
		Transitions:     transitions,
		Profile:         updated,
		Saved:           saved,
	}, nil
}

// Profile returns the current player profile.
func (s *Service) Profile(ctx context.Context) model.PlayerProfile {
	return s.profiles.GetProfile(ctx)
}

// UpdateProfile applies a partial profile update atomically.
func (s *Service) UpdateProfile(ctx context.Context, u profile.ProfileUpdate) (model.PlayerProfile, bool) {
	return s.profiles.UpdateProfile(ctx, u)
}

// ResetProfile starts the player over and reseeds the ledger.
func (s *Service) ResetProfile(ctx context.Context) model.PlayerProfile {
	p := s.profiles.ResetProfile(ctx)
	s.ledger.Initialize(ctx, p.ID, p.Electrons)
	return p
}

// RecordLogin stamps the last-login time.
func (s *Service) RecordLogin(ctx context.Context) model.PlayerProfile {
	return s.profiles.RecordLogin(ctx)
}

// CompleteTutorial marks the tutorial as done.
func (s *Service) CompleteTutorial(ctx context.Context) (model.PlayerProfile, bool) {
	return s.profiles.CompleteTutorial(ctx)
}

// UnlockGameMode unlocks a mode out of band and announces it.
func (s *Service) UnlockGameMode(ctx context.Context, mode model.GameMode) (model.PlayerProfile, bool) {
	p, added := s.profiles.UnlockGameMode(ctx, mode)
	if added {
		s.bus.Publish(ctx, progression.Event{
			Type: progression.EventGameModeUnlock,
			Mode: mode,
		})
	}
	return p, added
}

// UpdateLevel overwrites the level triple wholesale.
func (s *Service) UpdateLevel(ctx context.Context, level model.PlayerLevel) (model.PlayerProfile, bool) {
	return s.profiles.UpdateLevel(ctx, level)
}

// SetCurrentElement jumps the player to a catalog element out of band
// and announces the change.
func (s *Service) SetCurrentElement(ctx context.Context, symbol string) (model.PlayerProfile, bool) {
	before := s.profiles.GetProfile(ctx)
	p, ok := s.profiles.SetCurrentElement(ctx, symbol)
	if ok && p.CurrentElement != before.CurrentElement {
		s.bus.Publish(ctx, progression.Event{
			Type:        progression.EventElementAdvance,
			FromElement: before.CurrentElement,
			ToElement:   p.CurrentElement,
		})
		metrics.RecordElementAdvance()
	}
	return p, ok
}

// AwardElectrons credits the ledger and syncs the stored profile.
func (s *Service) AwardElectrons(ctx context.Context, amount int, description string) (model.PlayerProfile, bool) {
	p := s.profiles.GetProfile(ctx)
	if !s.ledger.Add(ctx, p.ID, amount, model.SourceAdjustment, description) {
		return p, false
	}
	p, _ = s.profiles.SetElectrons(ctx, s.ledger.Balance(ctx, p.ID))
	return p, true
}

// GrantAchievement records an achievement once, pays its electron
// reward, and announces the unlock. Duplicate IDs change nothing.
func (s *Service) GrantAchievement(ctx context.Context, a model.Achievement) (model.PlayerProfile, bool) {
	p, added := s.profiles.AddAchievement(ctx, a)
	if !added {
		return p, false
	}

	if a.ElectronReward > 0 {
		s.ledger.Add(ctx, p.ID, a.ElectronReward, model.SourceAchievementReward, a.Name)
		p, _ = s.profiles.SetElectrons(ctx, s.ledger.Balance(ctx, p.ID))
	}

	s.bus.Publish(ctx, progression.Event{
		Type:          progression.EventAchievementUnlock,
		AchievementID: a.ID,
	})
	return p, true
}

// SpendElectrons debits the balance. Overdrafts are refused and the
// profile is left untouched.
func (s *Service) SpendElectrons(ctx context.Context, amount int, description string) (model.PlayerProfile, bool) {
	p := s.profiles.GetProfile(ctx)
	if !s.ledger.Remove(ctx, p.ID, amount, model.SourcePurchase, description) {
		return p, false
	}
	p, _ = s.profiles.SetElectrons(ctx, s.ledger.Balance(ctx, p.ID))
	return p, true
}

// Balance returns the current electron balance.
func (s *Service) Balance(ctx context.Context) int {
	p := s.profiles.GetProfile(ctx)
	return s.ledger.Balance(ctx, p.ID)
}

// TransactionHistory returns the most recent transactions, oldest
// first, capped at the configured limit.
func (s *Service) TransactionHistory(ctx context.Context, limit int) []model.ElectronTransaction {
	if limit <= 0 || limit > s.maxHistoryLimit {
		limit = s.maxHistoryLimit
	}
	p := s.profiles.GetProfile(ctx)
	history := s.ledger.History(ctx, p.ID)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

// Progress returns the current-element progress projection.
func (s *Service) Progress(ctx context.Context) (progression.PlayerProgress, error) {
	return s.progress.Progress(s.profiles.GetProfile(ctx))
}

// PeriodProgress returns completion for one period.
func (s *Service) PeriodProgress(ctx context.Context, period int) progression.PeriodProgress {
	return s.progress.PeriodProgressFor(s.profiles.GetProfile(ctx), period)
}

// Elements returns the full element catalog.
func (s *Service) Elements(ctx context.Context) []catalog.Element {
	return s.catalog.Elements()
}

// OnTransition subscribes to transition announcements.
func (s *Service) OnTransition(fn transition.Subscriber) func() {
	return s.bus.Subscribe(fn)
}

// StartTransition moves a pending transition to ANIMATING.
func (s *Service) StartTransition(ctx context.Context, id string) {
	s.bus.Start(ctx, id)
}

// CompleteTransition finishes a transition.
func (s *Service) CompleteTransition(ctx context.Context, id string) {
	s.bus.Complete(ctx, id)
}

// ActiveTransitions returns the transitions not yet completed.
func (s *Service) ActiveTransitions(ctx context.Context) []transition.Transition {
	return s.bus.Active(ctx)
}

// Stats is the operational snapshot served by the stats endpoint.
type Stats struct {
	Uptime             string `json:"uptime"`
	CurrentElement     string `json:"currentElement"`
	AtomicNumber       int    `json:"atomicNumber"`
	AtomicWeight       int    `json:"atomicWeight"`
	GameLab            int    `json:"gameLab"`
	Electrons          int    `json:"electrons"`
	UnlockedGames      int    `json:"unlockedGames"`
	Achievements       int    `json:"achievements"`
	TrackedPuzzles     int64  `json:"trackedPuzzles"`
	FlawlessStreak     int    `json:"flawlessStreak"`
	ActiveTransitions  int    `json:"activeTransitions"`
	TutorialCompleted  bool   `json:"tutorialCompleted"`
	ElementsInCatalog  int    `json:"elementsInCatalog"`
	ProfileSchema      int    `json:"profileSchema"`
	ReducedMotionMode  bool   `json:"reducedMotionMode"`
	TransactionEntries int    `json:"transactionEntries"`
}

// GetStats returns the operational snapshot.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.profiles.GetProfile(ctx)
	return Stats{
		Uptime:             s.now().Sub(s.startedAt).Round(time.Second).String(),
		CurrentElement:     p.CurrentElement,
		AtomicNumber:       p.Level.AtomicNumber,
		AtomicWeight:       p.Level.AtomicWeight,
		GameLab:            p.Level.GameLab,
		Electrons:          s.ledger.Balance(ctx, p.ID),
		UnlockedGames:      len(p.UnlockedGames),
		Achievements:       len(p.Achievements),
		TrackedPuzzles:     s.tracker.Size(),
		FlawlessStreak:     s.tracker.Streak(),
		ActiveTransitions:  len(s.bus.Active(ctx)),
		TutorialCompleted:  p.TutorialCompleted,
		ElementsInCatalog:  s.catalog.MaxAtomicNumber(),
		ProfileSchema:      model.CurrentSchemaVersion,
		ReducedMotionMode:  s.reducedMotion,
		TransactionEntries: len(s.ledger.History(ctx, p.ID)),
	}
}
