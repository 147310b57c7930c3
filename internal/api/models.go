package api

import (
	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// GenerateChatRequest defines the payload for the chat generation endpoint.
// SessionID ties the request to a conversation so requests for the same
// session are serialized.
type GenerateChatRequest struct {
	SessionID string           `json:"sessionId" validate:"required"`
	Messages  []domain.Message `json:"messages"  validate:"required,min=1"`
}

// GenerateQuizRequest defines the payload for the quiz generation endpoint.
type GenerateQuizRequest struct {
	Topic      string            `json:"topic"      validate:"required"`
	Amount     int               `json:"amount"     validate:"required,gte=1,lte=20"`
	Difficulty domain.Difficulty `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

// GenerateNoteRequest defines the payload for the note generation endpoint.
type GenerateNoteRequest struct {
	Topic     string `json:"topic"     validate:"required"`
	WordCount int    `json:"wordCount" validate:"required,gte=50,lte=2000"`
}

// TextResponse wraps a single generated text payload.
type TextResponse struct {
	Text string `json:"text"`
}

// QuizGeneratedResponse returns the opened attempt and its questions.
type QuizGeneratedResponse struct {
	AttemptID string                `json:"attemptId"`
	Questions []domain.QuizQuestion `json:"questions"`
}

// AnswerRequest records one answer in a live quiz attempt.
type AnswerRequest struct {
	QuestionID  int `json:"questionId"  validate:"required,gte=1"`
	OptionIndex int `json:"optionIndex" validate:"gte=0,lte=3"`
}

// CompleteQuizRequest finalizes a quiz attempt.
type CompleteQuizRequest struct {
	AttemptID string `json:"attemptId" validate:"required"`
}

// CompleteQuizResponse returns the recorded result and the updated profile.
type CompleteQuizResponse struct {
	Result  *domain.QuizResult `json:"result"`
	Profile *domain.Profile    `json:"profile"`
}

// ProgressResponse reports where an attempt stands after a transition.
type ProgressResponse struct {
	Progress service.Progress `json:"progress"`
}

// UpdateProfileRequest edits the profile's display name.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
