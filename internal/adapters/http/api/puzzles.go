// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/isotopelab/isotope/internal/app"
	"github.com/isotopelab/isotope/internal/domain/model"
)

// PuzzlesHandler handles puzzle completion requests.
type PuzzlesHandler struct {
	deps Dependencies
}

// NewPuzzlesHandler creates a new puzzles handler.
func NewPuzzlesHandler(deps Dependencies) *PuzzlesHandler {
	return &PuzzlesHandler{deps: deps}
}

// completeRequest mirrors the body for POST /puzzles/complete.
type completeRequest struct {
	PuzzleID         string  `json:"puzzleId"`
	Mode             string  `json:"mode"`
	Difficulty       string  `json:"difficulty"`
	Perfect          bool    `json:"perfect"`
	TimeLimitSeconds float64 `json:"timeLimitSeconds,omitempty"`
	TimeTakenSeconds float64 `json:"timeTakenSeconds,omitempty"`
}

func (c completeRequest) validate() error {
	switch {
	case strings.TrimSpace(c.PuzzleID) == "":
		return errors.New("missing puzzleId")
	case !model.GameMode(c.Mode).Valid():
		return errors.New("unknown mode")
	case !model.Difficulty(c.Difficulty).Valid():
		return errors.New("unknown difficulty")
	case c.TimeLimitSeconds < 0 || c.TimeTakenSeconds < 0:
		return errors.New("time values must not be negative")
	}
	return nil
}

// HandleComplete handles POST /puzzles/complete.
func (h *PuzzlesHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.CompletePuzzle(r.Context(), service.PuzzleCompletion{
		PuzzleID:         req.PuzzleID,
		Mode:             model.GameMode(req.Mode),
		Difficulty:       model.Difficulty(req.Difficulty),
		Perfect:          req.Perfect,
		TimeLimitSeconds: req.TimeLimitSeconds,
		TimeTakenSeconds: req.TimeTakenSeconds,
	})
	switch {
	case errors.Is(err, service.ErrModeLocked):
		writeError(w, http.StatusForbidden, "mode_locked", err)
		return
	case errors.Is(err, service.ErrInvalidCompletion):
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
