package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/quiz"
)

const quizJSON = `[
  {"id": 1, "question": "2+2?", "options": ["3", "4", "5", "6"], "answer": 1},
  {"id": 2, "question": "3*3?", "options": ["6", "7", "8", "9"], "answer": 3}
]`

func newTestQuizService(gen *fakeGenerator) (*QuizService, *fakeQuizResultStore, *fakeProfileStore) {
	results := newFakeQuizResultStore()
	profiles := newFakeProfileStore()
	svc := NewQuizService(gen, results, profiles, slog.Default())
	return svc, results, profiles
}

func TestQuizServiceGenerate(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"```json\n" + quizJSON + "\n```"}}
	svc, _, _ := newTestQuizService(gen)

	attemptID, questions, err := svc.Generate(context.Background(), uuid.New(), "arithmetic", 2, domain.DifficultyEasy)
	require.NoError(t, err)
	assert.NotEmpty(t, attemptID)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].ID)
}

func TestQuizServiceGenerateMalformed(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{"not": "an array"}`}}
	svc, _, _ := newTestQuizService(gen)

	_, questions, err := svc.Generate(context.Background(), uuid.New(), "arithmetic", 2, domain.DifficultyEasy)
	assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	assert.Nil(t, questions, "a malformed response never yields a partial question set")
}

func TestQuizServiceFullAttempt(t *testing.T) {
	gen := &fakeGenerator{responses: []string{quizJSON}}
	svc, results, profiles := newTestQuizService(gen)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profiles.Put(ctx, userID, domain.NewProfile("Ada", "ada@example.com")))

	attemptID, _, err := svc.Generate(ctx, userID, "arithmetic", 2, domain.DifficultyMedium)
	require.NoError(t, err)

	// First question: correct answer, then peek back and forward.
	require.NoError(t, svc.Answer(ctx, userID, attemptID, 1, 1))
	progress, err := svc.Advance(ctx, userID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateInProgress, progress.State)
	assert.Equal(t, 1, progress.CurrentIndex)

	progress, err = svc.Previous(ctx, userID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CurrentIndex)
	progress, err = svc.Advance(ctx, userID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CurrentIndex)

	// Second question: wrong answer, completing the attempt.
	require.NoError(t, svc.Answer(ctx, userID, attemptID, 2, 0))
	progress, err = svc.Advance(ctx, userID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StateCompleted, progress.State)
	assert.Equal(t, 1, progress.Score)

	result, profile, err := svc.Complete(ctx, userID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, "arithmetic", result.Topic)
	// 1 correct x 50 + 10 completion bonus.
	assert.Equal(t, 60, profile.XP)
	assert.Equal(t, 1, profile.QuizzesTaken)

	stored, err := results.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// Completing again returns the same record without a second award.
	again, profileAgain, err := svc.Complete(ctx, userID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, result, again)
	assert.Equal(t, 60, profileAgain.XP)
	assert.Equal(t, 1, profileAgain.QuizzesTaken)

	listed, err := svc.ListResults(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, listed, 1, "no duplicate result records")
}

// completeAttempt drives every question of the two-question fixture so the
// engine reaches Completed with one correct answer.
func completeAttempt(t *testing.T, svc *QuizService, userID uuid.UUID, attemptID string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, svc.Answer(ctx, userID, attemptID, 1, 1))
	_, err := svc.Advance(ctx, userID, attemptID)
	require.NoError(t, err)
	require.NoError(t, svc.Answer(ctx, userID, attemptID, 2, 0))
	_, err = svc.Advance(ctx, userID, attemptID)
	require.NoError(t, err)
}

func TestQuizServiceAnswerAheadOfProgressRejected(t *testing.T) {
	gen := &fakeGenerator{responses: []string{quizJSON}}
	svc, _, _ := newTestQuizService(gen)
	ctx := context.Background()
	userID := uuid.New()

	attemptID, _, err := svc.Generate(ctx, userID, "arithmetic", 2, domain.DifficultyEasy)
	require.NoError(t, err)

	// Still on question 1; question 2 has not been reached.
	err = svc.Answer(ctx, userID, attemptID, 2, 0)
	assert.ErrorIs(t, err, quiz.ErrInvalidState)
}

func TestQuizServiceCompleteRetriesAfterResultStoreFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []string{quizJSON}}
	svc, results, profiles := newTestQuizService(gen)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profiles.Put(ctx, userID, domain.NewProfile("Ada", "ada@example.com")))

	attemptID, _, err := svc.Generate(ctx, userID, "arithmetic", 2, domain.DifficultyEasy)
	require.NoError(t, err)
	completeAttempt(t, svc, userID, attemptID)

	results.createErr = errors.New("store unavailable")
	_, _, err = svc.Complete(ctx, userID, attemptID)
	require.Error(t, err)

	// The failed completion must not consume the reward.
	result, profile, err := svc.Complete(ctx, userID, attemptID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 60, profile.XP)
	assert.Equal(t, 1, profile.QuizzesTaken)

	listed, err := svc.ListResults(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestQuizServiceCompleteRetriesAfterRewardFailure(t *testing.T) {
	gen := &fakeGenerator{responses: []string{quizJSON}}
	svc, _, profiles := newTestQuizService(gen)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profiles.Put(ctx, userID, domain.NewProfile("Ada", "ada@example.com")))

	attemptID, _, err := svc.Generate(ctx, userID, "arithmetic", 2, domain.DifficultyEasy)
	require.NoError(t, err)
	completeAttempt(t, svc, userID, attemptID)

	profiles.addXPErr = errors.New("store unavailable")
	_, _, err = svc.Complete(ctx, userID, attemptID)
	require.Error(t, err)

	// The result was recorded; the retry applies the XP exactly once and
	// does not write a duplicate record.
	result, profile, err := svc.Complete(ctx, userID, attemptID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 60, profile.XP)
	assert.Equal(t, 1, profile.QuizzesTaken)

	listed, err := svc.ListResults(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestQuizServiceCompleteBeforeFinish(t *testing.T) {
	gen := &fakeGenerator{responses: []string{quizJSON}}
	svc, _, profiles := newTestQuizService(gen)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profiles.Put(ctx, userID, domain.NewProfile("Ada", "ada@example.com")))

	attemptID, _, err := svc.Generate(ctx, userID, "arithmetic", 2, domain.DifficultyEasy)
	require.NoError(t, err)

	_, _, err = svc.Complete(ctx, userID, attemptID)
	assert.ErrorIs(t, err, quiz.ErrInvalidState)
}

func TestQuizServiceUnknownAttempt(t *testing.T) {
	svc, _, _ := newTestQuizService(&fakeGenerator{})
	ctx := context.Background()

	err := svc.Answer(ctx, uuid.New(), "nope", 1, 0)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, _, err = svc.Complete(ctx, uuid.New(), "nope")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizServiceAttemptsAreScopedToUser(t *testing.T) {
	gen := &fakeGenerator{responses: []string{quizJSON}}
	svc, _, _ := newTestQuizService(gen)
	ctx := context.Background()

	attemptID, _, err := svc.Generate(ctx, uuid.New(), "arithmetic", 2, domain.DifficultyEasy)
	require.NoError(t, err)

	err = svc.Answer(ctx, uuid.New(), attemptID, 1, 0)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
