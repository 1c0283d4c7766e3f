// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/isotopelab/isotope/internal/domain/model"
)

// EconomyHandler handles electron economy requests.
type EconomyHandler struct {
	deps Dependencies
}

// NewEconomyHandler creates a new economy handler.
func NewEconomyHandler(deps Dependencies) *EconomyHandler {
	return &EconomyHandler{deps: deps}
}

type balanceResponse struct {
	Balance int `json:"balance"`
}

// HandleBalance handles GET /economy/balance.
func (h *EconomyHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: h.deps.Balance(r.Context())})
}

// HandleHistory handles GET /economy/history?limit=N.
func (h *EconomyHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.TransactionHistory(r.Context(), limit))
}

type spendRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description,omitempty"`
}

type spendResponse struct {
	Profile model.PlayerProfile `json:"profile"`
	Spent   bool                `json:"spent"`
}

// HandleSpend handles POST /economy/spend. Overdrafts come back as
// spent=false with a 200; a refused purchase is an outcome, not an error.
func (h *EconomyHandler) HandleSpend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("amount must be positive"))
		return
	}
	p, spent := h.deps.SpendElectrons(r.Context(), req.Amount, req.Description)
	writeJSON(w, http.StatusOK, spendResponse{Profile: p, Spent: spent})
}
