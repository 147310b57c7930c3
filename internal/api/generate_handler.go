package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/api/shared"
	"github.com/edupilot/edupilot-api/internal/domain"
)

// ChatReplier generates assistant replies for conversations.
type ChatReplier interface {
	GenerateReply(ctx context.Context, userID uuid.UUID, sessionID string, messages []domain.Message) (string, error)
}

// NoteComposer generates study note content.
type NoteComposer interface {
	GenerateContent(ctx context.Context, topic string, wordCount int) (string, error)
}

// QuizOpener generates a question set and opens a live attempt.
type QuizOpener interface {
	Generate(ctx context.Context, userID uuid.UUID, topic string, amount int, difficulty domain.Difficulty) (string, []domain.QuizQuestion, error)
}

// GenerateHandler handles the /api/generate/* endpoints.
type GenerateHandler struct {
	chats     ChatReplier
	notes     NoteComposer
	quizzes   QuizOpener
	validator *validator.Validate
}

// NewGenerateHandler creates a new GenerateHandler with the given dependencies.
func NewGenerateHandler(chats ChatReplier, notes NoteComposer, quizzes QuizOpener) *GenerateHandler {
	return &GenerateHandler{
		chats:     chats,
		notes:     notes,
		quizzes:   quizzes,
		validator: validator.New(),
	}
}

// Chat handles POST /api/generate/chat.
func (h *GenerateHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateChatRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	text, err := h.chats.GenerateReply(r.Context(), userID, req.SessionID, req.Messages)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TextResponse{Text: text})
}

// Quiz handles POST /api/generate/quiz. A response the model mangles maps to
// a 500 with a sanitized message; a partial question set is never returned.
func (h *GenerateHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	attemptID, questions, err := h.quizzes.Generate(r.Context(), userID, req.Topic, req.Amount, req.Difficulty)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizGeneratedResponse{
		AttemptID: attemptID,
		Questions: questions,
	})
}

// Note handles POST /api/generate/note.
func (h *GenerateHandler) Note(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req GenerateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	text, err := h.notes.GenerateContent(r.Context(), req.Topic, req.WordCount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TextResponse{Text: text})
}
