package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

const chatCollection = "chats"

// ChatSessionStore implements store.ChatSessionStore on Badger.
type ChatSessionStore struct {
	db *DB
}

// NewChatSessionStore creates a ChatSessionStore.
func NewChatSessionStore(db *DB) *ChatSessionStore {
	return &ChatSessionStore{db: db}
}

// Save upserts a session.
func (s *ChatSessionStore) Save(ctx context.Context, userID uuid.UUID, session *domain.ChatSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return s.db.put(userKey(userID.String(), chatCollection, session.ID), session)
}

// GetByID retrieves one session.
func (s *ChatSessionStore) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.ChatSession, error) {
	var session domain.ChatSession
	err := s.db.get(userKey(userID.String(), chatCollection, id), &session)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns the user's sessions ordered by timestamp descending.
func (s *ChatSessionStore) List(ctx context.Context, userID uuid.UUID) ([]domain.ChatSession, error) {
	return s.list(userID)
}

// Delete removes a session.
func (s *ChatSessionStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	err := s.db.delete(userKey(userID.String(), chatCollection, id))
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrSessionNotFound
	}
	return err
}

// Watch emits the session list on every change.
func (s *ChatSessionStore) Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.ChatSession, store.CancelFunc, error) {
	prefix := string(userPrefix(userID.String(), chatCollection))
	return watchSnapshots(ctx, s.db, prefix, func() ([]domain.ChatSession, error) {
		return s.list(userID)
	})
}

func (s *ChatSessionStore) list(userID uuid.UUID) ([]domain.ChatSession, error) {
	var sessions []domain.ChatSession
	err := s.db.listPrefix(userPrefix(userID.String(), chatCollection), func(val []byte) error {
		var session domain.ChatSession
		if err := json.Unmarshal(val, &session); err != nil {
			return err
		}
		sessions = append(sessions, session)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions, nil
}
