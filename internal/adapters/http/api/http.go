// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/isotopelab/isotope/internal/adapters/transition"
	service "github.com/isotopelab/isotope/internal/app"
	"github.com/isotopelab/isotope/internal/domain/catalog"
	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/domain/progression"
	"github.com/isotopelab/isotope/internal/profile"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Profile operations.
	Profile(ctx context.Context) model.PlayerProfile
	UpdateProfile(ctx context.Context, u profile.ProfileUpdate) (model.PlayerProfile, bool)
	ResetProfile(ctx context.Context) model.PlayerProfile
	RecordLogin(ctx context.Context) model.PlayerProfile
	CompleteTutorial(ctx context.Context) (model.PlayerProfile, bool)
	UnlockGameMode(ctx context.Context, mode model.GameMode) (model.PlayerProfile, bool)
	GrantAchievement(ctx context.Context, a model.Achievement) (model.PlayerProfile, bool)

	// Progression operations.
	CompletePuzzle(ctx context.Context, c service.PuzzleCompletion) (service.CompletionResult, error)
	Progress(ctx context.Context) (progression.PlayerProgress, error)
	PeriodProgress(ctx context.Context, period int) progression.PeriodProgress
	Elements(ctx context.Context) []catalog.Element

	// Economy operations.
	Balance(ctx context.Context) int
	TransactionHistory(ctx context.Context, limit int) []model.ElectronTransaction
	SpendElectrons(ctx context.Context, amount int, description string) (model.PlayerProfile, bool)

	// Transition operations.
	ActiveTransitions(ctx context.Context) []transition.Transition
	StartTransition(ctx context.Context, id string)
	CompleteTransition(ctx context.Context, id string)
}

// StatsProvider exposes the operational snapshot.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	profileHandler     *ProfileHandler
	progressHandler    *ProgressHandler
	economyHandler     *EconomyHandler
	puzzlesHandler     *PuzzlesHandler
	transitionsHandler *TransitionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		profileHandler:     NewProfileHandler(deps),
		progressHandler:    NewProgressHandler(deps),
		economyHandler:     NewEconomyHandler(deps),
		puzzlesHandler:     NewPuzzlesHandler(deps),
		transitionsHandler: NewTransitionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/profile", MetricsMiddleware(s.profileHandler.HandleProfile, "profile"))
	mux.HandleFunc("/profile/reset", MetricsMiddleware(s.profileHandler.HandleReset, "profile_reset"))
	mux.HandleFunc("/profile/login", MetricsMiddleware(s.profileHandler.HandleLogin, "profile_login"))
	mux.HandleFunc("/profile/tutorial", MetricsMiddleware(s.profileHandler.HandleTutorial, "profile_tutorial"))
	mux.HandleFunc("/profile/games", MetricsMiddleware(s.profileHandler.HandleUnlockGame, "profile_games"))
	mux.HandleFunc("/profile/achievements", MetricsMiddleware(s.profileHandler.HandleAchievement, "profile_achievements"))
	mux.HandleFunc("/progress", MetricsMiddleware(s.progressHandler.HandleProgress, "progress"))
	mux.HandleFunc("/progress/period/", MetricsMiddleware(s.progressHandler.HandlePeriodProgress, "progress_period"))
	mux.HandleFunc("/elements", MetricsMiddleware(s.progressHandler.HandleElements, "elements"))
	mux.HandleFunc("/economy/balance", MetricsMiddleware(s.economyHandler.HandleBalance, "economy_balance"))
	mux.HandleFunc("/economy/history", MetricsMiddleware(s.economyHandler.HandleHistory, "economy_history"))
	mux.HandleFunc("/economy/spend", MetricsMiddleware(s.economyHandler.HandleSpend, "economy_spend"))
	mux.HandleFunc("/puzzles/complete", MetricsMiddleware(s.puzzlesHandler.HandleComplete, "puzzles_complete"))
	mux.HandleFunc("/transitions", MetricsMiddleware(s.transitionsHandler.HandleActive, "transitions"))
	mux.HandleFunc("/transitions/start", MetricsMiddleware(s.transitionsHandler.HandleStart, "transitions_start"))
	mux.HandleFunc("/transitions/complete", MetricsMiddleware(s.transitionsHandler.HandleComplete, "transitions_complete"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
