package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/quiz"
	"github.com/edupilot/edupilot-api/internal/store"
)

// quizAttempt is one live quiz run: the generated questions plus the engine
// driving them. Attempts live in memory only; completed results are the
// persistent record.
type quizAttempt struct {
	topic      string
	difficulty domain.Difficulty
	questions  []domain.QuizQuestion
	engine     *quiz.Session

	mu     sync.Mutex
	result *domain.QuizResult
}

// Progress reports where an attempt stands after an engine transition.
type Progress struct {
	State        quiz.State `json:"state"`
	CurrentIndex int        `json:"currentIndex"`
	Score        int        `json:"score"`
}

// QuizService owns quiz generation, live attempts, and completion rewards.
type QuizService struct {
	generator generation.Generator
	results   store.QuizResultStore
	profiles  store.ProfileStore
	logger    *slog.Logger

	mu       sync.Mutex
	attempts map[sessionKey]*quizAttempt
}

// NewQuizService creates a QuizService.
func NewQuizService(
	generator generation.Generator,
	results store.QuizResultStore,
	profiles store.ProfileStore,
	logger *slog.Logger,
) *QuizService {
	return &QuizService{
		generator: generator,
		results:   results,
		profiles:  profiles,
		logger:    logger.With("component", "quiz_service"),
		attempts:  make(map[sessionKey]*quizAttempt),
	}
}

// Generate produces a question set for a topic and opens a live attempt.
// Returns the attempt ID alongside the questions. A malformed model response
// surfaces as generation.ErrMalformedResponse; no partial question set is
// ever returned.
func (s *QuizService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
	amount int,
	difficulty domain.Difficulty,
) (string, []domain.QuizQuestion, error) {
	raw, err := s.generator.Generate(ctx, generation.QuizPrompt(topic, amount, difficulty))
	if err != nil {
		s.logger.Error("quiz generation failed",
			"error", err,
			"user_id", userID,
			"topic", topic)
		return "", nil, err
	}

	questions, err := generation.ExtractQuiz(raw)
	if err != nil {
		s.logger.Error("quiz response rejected",
			"error", err,
			"user_id", userID,
			"topic", topic)
		return "", nil, err
	}

	engine := quiz.NewSession()
	if err := engine.Start(questions); err != nil {
		return "", nil, err
	}

	attemptID := uuid.NewString()
	s.mu.Lock()
	s.attempts[sessionKey{userID: userID, sessionID: attemptID}] = &quizAttempt{
		topic:      topic,
		difficulty: difficulty,
		questions:  questions,
		engine:     engine,
	}
	s.mu.Unlock()

	s.logger.Debug("quiz attempt opened",
		"user_id", userID,
		"attempt_id", attemptID,
		"topic", topic,
		"questions", len(questions))

	return attemptID, questions, nil
}

func (s *QuizService) attempt(userID uuid.UUID, attemptID string) (*quizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[sessionKey{userID: userID, sessionID: attemptID}]
	if !ok {
		return nil, ErrQuizNotFound
	}
	return attempt, nil
}

// Answer records the chosen option for a question in a live attempt.
func (s *QuizService) Answer(ctx context.Context, userID uuid.UUID, attemptID string, questionID, optionIndex int) error {
	attempt, err := s.attempt(userID, attemptID)
	if err != nil {
		return err
	}
	return attempt.engine.Answer(questionID, optionIndex)
}

// Advance moves the attempt to the next question, completing it on the last.
func (s *QuizService) Advance(ctx context.Context, userID uuid.UUID, attemptID string) (Progress, error) {
	attempt, err := s.attempt(userID, attemptID)
	if err != nil {
		return Progress{}, err
	}

	if err := attempt.engine.Advance(); err != nil {
		return Progress{}, err
	}
	return s.progress(attempt), nil
}

// Previous moves the attempt back one question.
func (s *QuizService) Previous(ctx context.Context, userID uuid.UUID, attemptID string) (Progress, error) {
	attempt, err := s.attempt(userID, attemptID)
	if err != nil {
		return Progress{}, err
	}

	if err := attempt.engine.Previous(); err != nil {
		return Progress{}, err
	}
	return s.progress(attempt), nil
}

func (s *QuizService) progress(attempt *quizAttempt) Progress {
	return Progress{
		State:        attempt.engine.State(),
		CurrentIndex: attempt.engine.CurrentIndex(),
		Score:        attempt.engine.Score(),
	}
}

// Complete records a finished attempt and applies its reward to the profile.
// Calling it again for the same attempt returns the recorded result without
// re-applying any increments.
func (s *QuizService) Complete(ctx context.Context, userID uuid.UUID, attemptID string) (*domain.QuizResult, *domain.Profile, error) {
	attempt, err := s.attempt(userID, attemptID)
	if err != nil {
		return nil, nil, err
	}

	// Claim under the attempt lock so a re-invoked completion handler sees
	// the recorded result rather than a half-applied reward.
	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	reward, awarded, err := attempt.engine.ClaimReward()
	if err != nil {
		return nil, nil, err
	}

	if !awarded {
		profile, err := s.profiles.Get(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		return attempt.result, profile, nil
	}

	// A store failure releases the claim so a retried completion can apply
	// the reward; the result is persisted at most once per attempt.
	if attempt.result == nil {
		result, err := domain.NewQuizResult(attempt.topic, attempt.difficulty, reward.Score, len(attempt.questions))
		if err != nil {
			attempt.engine.Unclaim()
			return nil, nil, err
		}

		if err := s.results.Create(ctx, userID, result); err != nil {
			attempt.engine.Unclaim()
			return nil, nil, fmt.Errorf("failed to record quiz result: %w", err)
		}
		attempt.result = result
	}

	profile, err := s.profiles.AddXP(ctx, userID, reward.XP, 1, 0)
	if err != nil {
		attempt.engine.Unclaim()
		return nil, nil, fmt.Errorf("failed to apply quiz reward: %w", err)
	}

	s.logger.Info("quiz completed",
		"user_id", userID,
		"attempt_id", attemptID,
		"score", reward.Score,
		"xp", reward.XP)

	return attempt.result, profile, nil
}

// ListResults returns the user's completed quiz records, newest first.
func (s *QuizService) ListResults(ctx context.Context, userID uuid.UUID) ([]domain.QuizResult, error) {
	return s.results.List(ctx, userID)
}
