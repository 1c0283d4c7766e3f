// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// TransitionsHandler handles transition lifecycle requests from the UI.
type TransitionsHandler struct {
	deps Dependencies
}

// NewTransitionsHandler creates a new transitions handler.
func NewTransitionsHandler(deps Dependencies) *TransitionsHandler {
	return &TransitionsHandler{deps: deps}
}

// HandleActive handles GET /transitions.
func (h *TransitionsHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ActiveTransitions(r.Context()))
}

type transitionRequest struct {
	ID string `json:"id"`
}

type transitionAck struct {
	Status string `json:"status"`
}

func decodeTransitionID(r *http.Request) (string, error) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return "", errors.New("missing id")
	}
	return id, nil
}

// HandleStart handles POST /transitions/start. Unknown IDs are
// acknowledged anyway; the bus treats them as no-ops.
func (h *TransitionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, err := decodeTransitionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.deps.StartTransition(r.Context(), id)
	writeJSON(w, http.StatusAccepted, transitionAck{Status: "accepted"})
}

// HandleComplete handles POST /transitions/complete.
func (h *TransitionsHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, err := decodeTransitionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.deps.CompleteTransition(r.Context(), id)
	writeJSON(w, http.StatusAccepted, transitionAck{Status: "accepted"})
}
