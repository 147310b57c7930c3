package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edupilot/edupilot-api/internal/domain"
)

// ExtractQuiz normalizes raw model text into a validated question set.
// It strips Markdown code fences, trims whitespace, and parses the fixed
// JSON array schema. Any deviation (not an array, missing fields, option
// count != 4, answer outside [0,3], non-contiguous IDs) fails with an error
// wrapping ErrMalformedResponse; a partially valid set is never returned.
//
// Cleanup is deliberately minimal: the model is instructed to emit the exact
// format, so there is no salvage of truncated or partial JSON.
func ExtractQuiz(raw string) ([]domain.QuizQuestion, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty quiz payload", ErrMalformedResponse)
	}

	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := domain.ValidateQuestionSet(questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return questions, nil
}

// ExtractText is the identity transform for the chat/note path: the model is
// instructed to return prose or Markdown directly.
func ExtractText(raw string) string {
	return raw
}

// StripCodeFences removes all triple-backtick "json" fences and bare
// triple-backtick fences, then trims surrounding whitespace.
func StripCodeFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
