package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/api/shared"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, placed there by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireUserID extracts the user ID or writes a 401 and returns false.
// Reaching a handler without one means the auth middleware was bypassed.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// requirePathID extracts a non-empty path parameter or writes a 400 and
// returns false. Chat session and note IDs are client-generated strings,
// not UUIDs.
func requirePathID(w http.ResponseWriter, r *http.Request, paramName string) (string, bool) {
	id := chi.URLParam(r, paramName)
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+paramName+" path parameter")
		return "", false
	}
	return id, true
}
