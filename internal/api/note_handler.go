package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/api/shared"
	"github.com/edupilot/edupilot-api/internal/domain"
)

// NoteAccess is the slice of the note service the CRUD handler needs.
type NoteAccess interface {
	Save(ctx context.Context, userID uuid.UUID, note *domain.Note) error
	GetByID(ctx context.Context, userID uuid.UUID, noteID string) (*domain.Note, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Note, error)
	Delete(ctx context.Context, userID uuid.UUID, noteID string) error
}

// NoteHandler handles the /api/notes endpoints.
type NoteHandler struct {
	notes NoteAccess
}

// NewNoteHandler creates a new NoteHandler with the given dependencies.
func NewNoteHandler(notes NoteAccess) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// List handles GET /api/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	if notes == nil {
		notes = []domain.Note{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	noteID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	note, err := h.notes.GetByID(r.Context(), userID, noteID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// Put handles PUT /api/notes/{id}. The first save of a note ID counts as its
// creation and triggers the one-time XP award.
func (h *NoteHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	noteID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	var note domain.Note
	if err := shared.DecodeJSON(r, &note); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	note.ID = noteID

	if err := note.Validate(); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid note", err)
		return
	}

	if err := h.notes.Save(r.Context(), userID, &note); err != nil {
		HandleAPIError(w, r, err, "Failed to save note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// Delete handles DELETE /api/notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	noteID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), userID, noteID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
