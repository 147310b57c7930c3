package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/store"
)

// saveDebounce is how long a chat session sits dirty before it is persisted.
// Rapid appends within the window coalesce into a single write.
const saveDebounce = time.Second

// ChatService owns chat sessions: reply generation, debounced persistence,
// and retrieval. The in-memory copy of a dirty session is the source of
// truth; the persisted copy is only read on resume.
type ChatService struct {
	chats     store.ChatSessionStore
	generator generation.Generator
	logger    *slog.Logger
	debounce  time.Duration

	mu       sync.Mutex
	sessions map[sessionKey]*sessionState
}

type sessionKey struct {
	userID    uuid.UUID
	sessionID string
}

// sessionState tracks one session's dirty snapshot and serializes its
// generation requests. genMu is separate from mu so a slow generation never
// blocks saves of other sessions.
type sessionState struct {
	genMu sync.Mutex

	mu      sync.Mutex
	pending *domain.ChatSession
	timer   *time.Timer
}

// NewChatService creates a ChatService.
func NewChatService(chats store.ChatSessionStore, generator generation.Generator, logger *slog.Logger) *ChatService {
	return &ChatService{
		chats:     chats,
		generator: generator,
		logger:    logger.With("component", "chat_service"),
		debounce:  saveDebounce,
		sessions:  make(map[sessionKey]*sessionState),
	}
}

func (s *ChatService) state(userID uuid.UUID, sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{userID: userID, sessionID: sessionID}
	st, ok := s.sessions[key]
	if !ok {
		st = &sessionState{}
		s.sessions[key] = st
	}
	return st
}

// GenerateReply produces the assistant's answer for a conversation.
// Requests for the same session are serialized: a new request issued while
// one is outstanding waits for the prior to resolve before it is sent.
func (s *ChatService) GenerateReply(
	ctx context.Context,
	userID uuid.UUID,
	sessionID string,
	messages []domain.Message,
) (string, error) {
	prompt := generation.ChatPrompt(messages)
	if prompt == "" {
		return "", fmt.Errorf("%w: conversation has no user message", generation.ErrEmptyPrompt)
	}

	st := s.state(userID, sessionID)
	st.genMu.Lock()
	defer st.genMu.Unlock()

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("chat reply generation failed",
			"error", err,
			"user_id", userID,
			"session_id", sessionID)
		return "", err
	}

	return generation.ExtractText(reply), nil
}

// Save records the session as the dirty snapshot and (re)arms the debounce
// timer. The title is re-derived from the messages on every save.
func (s *ChatService) Save(ctx context.Context, userID uuid.UUID, session *domain.ChatSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	snapshot := *session
	snapshot.Messages = append([]domain.Message(nil), session.Messages...)
	snapshot.Title = domain.DeriveTitle(snapshot.Messages)
	snapshot.Timestamp = time.Now().UnixMilli()

	st := s.state(userID, session.ID)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pending = &snapshot
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(s.debounce, func() {
		s.flush(userID, session.ID, st)
	})

	return nil
}

// flush persists the pending snapshot, if any. Runs off the request path, so
// it uses a background context and only logs failures.
func (s *ChatService) flush(userID uuid.UUID, sessionID string, st *sessionState) {
	st.mu.Lock()
	pending := st.pending
	st.pending = nil
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.mu.Unlock()

	if pending == nil {
		return
	}

	if err := s.chats.Save(context.Background(), userID, pending); err != nil {
		s.logger.Error("failed to persist chat session",
			"error", err,
			"user_id", userID,
			"session_id", sessionID)
		return
	}

	s.logger.Debug("chat session persisted",
		"user_id", userID,
		"session_id", sessionID,
		"messages", len(pending.Messages))
}

// GetByID returns the dirty in-memory snapshot when one exists, otherwise
// the persisted session.
func (s *ChatService) GetByID(ctx context.Context, userID uuid.UUID, sessionID string) (*domain.ChatSession, error) {
	st := s.state(userID, sessionID)
	st.mu.Lock()
	pending := st.pending
	st.mu.Unlock()

	if pending != nil {
		snapshot := *pending
		snapshot.Messages = append([]domain.Message(nil), pending.Messages...)
		return &snapshot, nil
	}

	return s.chats.GetByID(ctx, userID, sessionID)
}

// List flushes the user's dirty sessions and returns the persisted list,
// newest first.
func (s *ChatService) List(ctx context.Context, userID uuid.UUID) ([]domain.ChatSession, error) {
	s.flushUser(userID)
	return s.chats.List(ctx, userID)
}

// Delete drops any pending save and removes the persisted session.
func (s *ChatService) Delete(ctx context.Context, userID uuid.UUID, sessionID string) error {
	st := s.state(userID, sessionID)
	st.mu.Lock()
	hadPending := st.pending != nil
	st.pending = nil
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.mu.Unlock()

	err := s.chats.Delete(ctx, userID, sessionID)
	if hadPending && err != nil && store.IsNotFoundError(err) {
		// The session only ever existed in memory; deleting it is a no-op.
		return nil
	}
	return err
}

// Watch exposes the store's snapshot subscription.
func (s *ChatService) Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.ChatSession, store.CancelFunc, error) {
	return s.chats.Watch(ctx, userID)
}

// Flush persists every dirty session immediately. Called on shutdown so the
// debounce window never loses the tail of a conversation.
func (s *ChatService) Flush(ctx context.Context) {
	s.mu.Lock()
	keys := make([]sessionKey, 0, len(s.sessions))
	states := make([]*sessionState, 0, len(s.sessions))
	for key, st := range s.sessions {
		keys = append(keys, key)
		states = append(states, st)
	}
	s.mu.Unlock()

	for i, st := range states {
		s.flush(keys[i].userID, keys[i].sessionID, st)
	}
}

func (s *ChatService) flushUser(userID uuid.UUID) {
	s.mu.Lock()
	keys := make([]sessionKey, 0)
	states := make([]*sessionState, 0)
	for key, st := range s.sessions {
		if key.userID == userID {
			keys = append(keys, key)
			states = append(states, st)
		}
	}
	s.mu.Unlock()

	for i, st := range states {
		s.flush(keys[i].userID, keys[i].sessionID, st)
	}
}
