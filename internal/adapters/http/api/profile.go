// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/isotopelab/isotope/internal/domain/model"
	"github.com/isotopelab/isotope/internal/profile"
)

// ProfileHandler handles player profile requests.
type ProfileHandler struct {
	deps Dependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps Dependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// profileUpdateRequest mirrors the PATCH-style body for POST /profile.
type profileUpdateRequest struct {
	DisplayName       *string `json:"displayName,omitempty"`
	TutorialCompleted *bool   `json:"tutorialCompleted,omitempty"`
}

// HandleProfile handles GET /profile and POST /profile.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Profile(r.Context()))
	case http.MethodPost:
		var req profileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if req.DisplayName == nil && req.TutorialCompleted == nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("no updatable fields in request"))
			return
		}
		updated, ok := h.deps.UpdateProfile(r.Context(), profile.ProfileUpdate{
			DisplayName:       req.DisplayName,
			TutorialCompleted: req.TutorialCompleted,
		})
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "invalid_update", errors.New("update rejected by validation"))
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// HandleReset handles POST /profile/reset.
func (h *ProfileHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ResetProfile(r.Context()))
}

// HandleLogin handles POST /profile/login.
func (h *ProfileHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.RecordLogin(r.Context()))
}

type tutorialResponse struct {
	Profile model.PlayerProfile `json:"profile"`
	Changed bool                `json:"changed"`
}

// HandleTutorial handles POST /profile/tutorial.
func (h *ProfileHandler) HandleTutorial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	p, changed := h.deps.CompleteTutorial(r.Context())
	writeJSON(w, http.StatusOK, tutorialResponse{Profile: p, Changed: changed})
}

type unlockGameRequest struct {
	Mode string `json:"mode"`
}

type unlockGameResponse struct {
	Profile  model.PlayerProfile `json:"profile"`
	Unlocked bool                `json:"unlocked"`
}

// HandleUnlockGame handles POST /profile/games.
func (h *ProfileHandler) HandleUnlockGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req unlockGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	mode := model.GameMode(strings.TrimSpace(req.Mode))
	if !mode.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("unknown game mode"))
		return
	}
	p, unlocked := h.deps.UnlockGameMode(r.Context(), mode)
	writeJSON(w, http.StatusOK, unlockGameResponse{Profile: p, Unlocked: unlocked})
}

type achievementRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	ElectronReward int    `json:"electronReward,omitempty"`
}

func (a achievementRequest) validate() error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return errors.New("missing id")
	case strings.TrimSpace(a.Name) == "":
		return errors.New("missing name")
	case a.ElectronReward < 0:
		return errors.New("electronReward must not be negative")
	}
	return nil
}

type achievementResponse struct {
	Profile model.PlayerProfile `json:"profile"`
	Granted bool                `json:"granted"`
}

// HandleAchievement handles POST /profile/achievements.
func (h *ProfileHandler) HandleAchievement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req achievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	p, granted := h.deps.GrantAchievement(r.Context(), model.Achievement{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       model.AchievementCategory(req.Category),
		ElectronReward: req.ElectronReward,
	})
	writeJSON(w, http.StatusOK, achievementResponse{Profile: p, Granted: granted})
}
