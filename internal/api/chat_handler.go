package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/api/shared"
	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

// ChatSessionAccess is the slice of the chat service the CRUD handler needs.
type ChatSessionAccess interface {
	Save(ctx context.Context, userID uuid.UUID, session *domain.ChatSession) error
	GetByID(ctx context.Context, userID uuid.UUID, sessionID string) (*domain.ChatSession, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.ChatSession, error)
	Delete(ctx context.Context, userID uuid.UUID, sessionID string) error
}

// ChatHandler handles the /api/chats endpoints.
type ChatHandler struct {
	chats ChatSessionAccess
}

// NewChatHandler creates a new ChatHandler with the given dependencies.
func NewChatHandler(chats ChatSessionAccess) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// List handles GET /api/chats.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sessions, err := h.chats.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list chat sessions")
		return
	}

	if sessions == nil {
		sessions = []domain.ChatSession{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}

// Get handles GET /api/chats/{id}.
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.chats.GetByID(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// Put handles PUT /api/chats/{id}. The body carries the full session; the
// save is debounced server-side, so a 200 means accepted, not yet durable.
func (h *ChatHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	var session domain.ChatSession
	if err := shared.DecodeJSON(r, &session); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	session.ID = sessionID

	if err := session.Validate(); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid chat session", err)
		return
	}

	if err := h.chats.Save(r.Context(), userID, &session); err != nil {
		HandleAPIError(w, r, err, "Failed to save chat session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// Delete handles DELETE /api/chats/{id}.
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.chats.Delete(r.Context(), userID, sessionID); err != nil {
		if store.IsNotFoundError(err) {
			HandleAPIError(w, r, err, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to delete chat session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
