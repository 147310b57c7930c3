package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/api/shared"
	"github.com/edupilot/edupilot-api/internal/domain"
)

// ProfileAccess is the slice of the profile service the handler needs.
type ProfileAccess interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateName(ctx context.Context, userID uuid.UUID, name string) (*domain.Profile, error)
}

// ProfileHandler handles the /api/profile endpoints.
type ProfileHandler struct {
	profiles  ProfileAccess
	validator *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler with the given dependencies.
func NewProfileHandler(profiles ProfileAccess) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		validator: validator.New(),
	}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// Put handles PUT /api/profile. Only the display name is editable; XP,
// level, and counters are owned by the reward paths.
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	profile, err := h.profiles.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
