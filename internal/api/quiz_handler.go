package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/api/shared"
	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/service"
)

// QuizAttemptAccess is the slice of the quiz service the attempt handler needs.
type QuizAttemptAccess interface {
	Answer(ctx context.Context, userID uuid.UUID, attemptID string, questionID, optionIndex int) error
	Advance(ctx context.Context, userID uuid.UUID, attemptID string) (service.Progress, error)
	Previous(ctx context.Context, userID uuid.UUID, attemptID string) (service.Progress, error)
	Complete(ctx context.Context, userID uuid.UUID, attemptID string) (*domain.QuizResult, *domain.Profile, error)
	ListResults(ctx context.Context, userID uuid.UUID) ([]domain.QuizResult, error)
}

// QuizHandler handles the /api/quizzes endpoints.
type QuizHandler struct {
	quizzes   QuizAttemptAccess
	validator *validator.Validate
}

// NewQuizHandler creates a new QuizHandler with the given dependencies.
func NewQuizHandler(quizzes QuizAttemptAccess) *QuizHandler {
	return &QuizHandler{
		quizzes:   quizzes,
		validator: validator.New(),
	}
}

// ListResults handles GET /api/quizzes.
func (h *QuizHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	results, err := h.quizzes.ListResults(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list quiz results")
		return
	}

	if results == nil {
		results = []domain.QuizResult{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, results)
}

// Answer handles POST /api/quizzes/{id}/answer.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	attemptID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.quizzes.Answer(r.Context(), userID, attemptID, req.QuestionID, req.OptionIndex); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Advance handles POST /api/quizzes/{id}/advance.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	attemptID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	progress, err := h.quizzes.Advance(r.Context(), userID, attemptID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{Progress: progress})
}

// Previous handles POST /api/quizzes/{id}/previous.
func (h *QuizHandler) Previous(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	attemptID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	progress, err := h.quizzes.Previous(r.Context(), userID, attemptID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{Progress: progress})
}

// Complete handles POST /api/quizzes. Completing the same attempt twice
// returns the recorded result without a second reward.
func (h *QuizHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CompleteQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, profile, err := h.quizzes.Complete(r.Context(), userID, req.AttemptID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompleteQuizResponse{
		Result:  result,
		Profile: profile,
	})
}
