package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
)

const quizCollection = "quizzes"

// QuizResultStore implements store.QuizResultStore on Badger.
// Results are append-only; keys carry a fresh UUID per record.
type QuizResultStore struct {
	db *DB
}

// NewQuizResultStore creates a QuizResultStore.
func NewQuizResultStore(db *DB) *QuizResultStore {
	return &QuizResultStore{db: db}
}

// Create appends a completed quiz result.
func (s *QuizResultStore) Create(ctx context.Context, userID uuid.UUID, result *domain.QuizResult) error {
	return s.db.put(userKey(userID.String(), quizCollection, uuid.NewString()), result)
}

// List returns the user's results ordered by timestamp descending.
func (s *QuizResultStore) List(ctx context.Context, userID uuid.UUID) ([]domain.QuizResult, error) {
	var results []domain.QuizResult
	err := s.db.listPrefix(userPrefix(userID.String(), quizCollection), func(val []byte) error {
		var result domain.QuizResult
		if err := json.Unmarshal(val, &result); err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp > results[j].Timestamp
	})
	return results, nil
}
