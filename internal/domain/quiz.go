package domain

import (
	"errors"
	"fmt"
	"time"
)

// Quiz-specific validation errors.
var (
	// ErrQuestionTextEmpty is returned when a quiz question has no text.
	ErrQuestionTextEmpty = errors.New("quiz question text cannot be empty")

	// ErrQuestionOptionCount is returned when a quiz question does not have
	// exactly four options.
	ErrQuestionOptionCount = errors.New("quiz question must have exactly 4 options")

	// ErrQuestionAnswerRange is returned when a quiz question's answer index
	// is outside [0,3].
	ErrQuestionAnswerRange = errors.New("quiz answer index must be between 0 and 3")

	// ErrQuestionIDSequence is returned when question IDs are not the
	// contiguous range 1..N.
	ErrQuestionIDSequence = errors.New("quiz question IDs must be a contiguous 1..N range")

	// ErrResultTopicEmpty is returned when a quiz result has no topic.
	ErrResultTopicEmpty = errors.New("quiz result topic cannot be empty")
)

// OptionCount is the fixed number of options on every quiz question.
const OptionCount = 4

// Difficulty is the requested difficulty of a generated quiz.
type Difficulty string

// Valid quiz difficulties.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// QuizQuestion is one multiple-choice question in a generated quiz.
// IDs run 1..N in question order; Answer is the index of the correct option.
type QuizQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// Validate checks if the QuizQuestion has valid data.
func (q QuizQuestion) Validate() error {
	if q.Question == "" {
		return ErrQuestionTextEmpty
	}

	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: got %d", ErrQuestionOptionCount, len(q.Options))
	}

	if q.Answer < 0 || q.Answer >= OptionCount {
		return fmt.Errorf("%w: got %d", ErrQuestionAnswerRange, q.Answer)
	}

	return nil
}

// ValidateQuestionSet validates every question in the set and the 1..N ID
// invariant. An empty set is rejected.
func ValidateQuestionSet(questions []QuizQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: empty question set", ErrValidation)
	}

	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		if q.ID != i+1 {
			return fmt.Errorf("%w: question %d has id %d", ErrQuestionIDSequence, i+1, q.ID)
		}
	}

	return nil
}

// QuizResult is the persisted record of one completed quiz attempt.
// It is created once at completion and never mutated.
type QuizResult struct {
	Topic          string     `json:"topic"`
	Difficulty     Difficulty `json:"difficulty"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Date           string     `json:"date"`
	Timestamp      int64      `json:"timestamp"`
}

// NewQuizResult creates a QuizResult for a completed attempt.
func NewQuizResult(topic string, difficulty Difficulty, score, total int) (*QuizResult, error) {
	if topic == "" {
		return nil, ErrResultTopicEmpty
	}

	if score < 0 || total < 1 || score > total {
		return nil, fmt.Errorf("%w: score %d of %d", ErrValidation, score, total)
	}

	now := time.Now()
	return &QuizResult{
		Topic:          topic,
		Difficulty:     difficulty,
		Score:          score,
		TotalQuestions: total,
		Date:           now.Format(time.RFC3339),
		Timestamp:      now.UnixMilli(),
	}, nil
}
