package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/edupilot/edupilot-api/internal/api/shared"
	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/quiz"
	"github.com/edupilot/edupilot-api/internal/service"
	"github.com/edupilot/edupilot-api/internal/service/auth"
	"github.com/edupilot/edupilot-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrNoteNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, service.ErrQuizNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, quiz.ErrInvalidState):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest

	// Generation failures all surface as server errors; the retry policy
	// has already run its course by the time one reaches a handler.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Chat session not found"

	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found"

	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"

	case errors.Is(err, service.ErrQuizNotFound):
		return "Quiz attempt not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, quiz.ErrInvalidState):
		return "Operation not valid for the quiz in its current state"

	case errors.Is(err, quiz.ErrInvalidOption):
		return "Invalid answer option"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrMalformedResponse):
		return "Failed to generate a valid quiz"

	case errors.Is(err, generation.ErrRateLimited),
		errors.Is(err, generation.ErrTransport),
		errors.Is(err, generation.ErrEmptyResponse):
		return "Failed to generate content"

	case errors.Is(err, generation.ErrEmptyPrompt):
		return "Request contains nothing to respond to"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation
		// for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps an error to a status code and sanitized message and
// writes the response. An explicit userMessage overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
