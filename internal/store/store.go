package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
)

// CancelFunc tears down a subscription. It is safe to call more than once.
// Subscriptions are restartable only by calling Watch again.
type CancelFunc func()

// ChatSessionStore persists chat sessions per user.
type ChatSessionStore interface {
	// Save upserts a session (merge semantics: a later save with the same ID
	// replaces the stored copy).
	Save(ctx context.Context, userID uuid.UUID, session *domain.ChatSession) error

	// GetByID retrieves one session. Returns ErrSessionNotFound if absent.
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.ChatSession, error)

	// List returns all sessions for the user ordered by timestamp descending.
	List(ctx context.Context, userID uuid.UUID) ([]domain.ChatSession, error)

	// Delete removes a session. Returns ErrSessionNotFound if absent.
	Delete(ctx context.Context, userID uuid.UUID, id string) error

	// Watch emits the current session list on every change until cancelled.
	// The channel is closed on cancellation or context expiry.
	Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.ChatSession, CancelFunc, error)
}

// NoteStore persists study notes per user.
type NoteStore interface {
	// Save upserts a note.
	Save(ctx context.Context, userID uuid.UUID, note *domain.Note) error

	// GetByID retrieves one note. Returns ErrNoteNotFound if absent.
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Note, error)

	// List returns all notes for the user ordered by date descending.
	List(ctx context.Context, userID uuid.UUID) ([]domain.Note, error)

	// Delete removes a note. Returns ErrNoteNotFound if absent.
	Delete(ctx context.Context, userID uuid.UUID, id string) error

	// Watch emits the current note list on every change until cancelled.
	Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.Note, CancelFunc, error)
}

// QuizResultStore persists completed quiz records. Results are append-only.
type QuizResultStore interface {
	// Create appends a completed quiz result.
	Create(ctx context.Context, userID uuid.UUID, result *domain.QuizResult) error

	// List returns all results for the user ordered by timestamp descending.
	List(ctx context.Context, userID uuid.UUID) ([]domain.QuizResult, error)
}

// ProfileStore persists the per-user stats record.
type ProfileStore interface {
	// Get retrieves the profile. Returns ErrProfileNotFound if absent.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Put stores the profile, replacing any existing record.
	Put(ctx context.Context, userID uuid.UUID, profile *domain.Profile) error

	// AddXP atomically adds XP to the profile, recomputing the level, and
	// optionally increments the lifetime quiz and note counters.
	AddXP(ctx context.Context, userID uuid.UUID, xp, quizzes, notes int) (*domain.Profile, error)

	// Watch emits the profile on every change until cancelled.
	Watch(ctx context.Context, userID uuid.UUID) (<-chan domain.Profile, CancelFunc, error)
}

// UserStore persists registered accounts.
type UserStore interface {
	// Create saves a new user. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
