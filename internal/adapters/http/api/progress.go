// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ProgressHandler handles progression read requests.
type ProgressHandler struct {
	deps Dependencies
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(deps Dependencies) *ProgressHandler {
	return &ProgressHandler{deps: deps}
}

// HandleProgress handles GET /progress.
func (h *ProgressHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	progress, err := h.deps.Progress(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// HandlePeriodProgress handles GET /progress/period/{period}.
func (h *ProgressHandler) HandlePeriodProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/progress/period/")
	period, err := strconv.Atoi(raw)
	if err != nil || period < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("period must be a positive integer"))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PeriodProgress(r.Context(), period))
}

// HandleElements handles GET /elements.
func (h *ProgressHandler) HandleElements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Elements(r.Context()))
}
