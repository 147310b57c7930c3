package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/store"
)

// NoteService owns study notes: content generation, persistence, and the
// one-time creation XP award.
type NoteService struct {
	notes     store.NoteStore
	profiles  store.ProfileStore
	generator generation.Generator
	logger    *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(
	notes store.NoteStore,
	profiles store.ProfileStore,
	generator generation.Generator,
	logger *slog.Logger,
) *NoteService {
	return &NoteService{
		notes:     notes,
		profiles:  profiles,
		generator: generator,
		logger:    logger.With("component", "note_service"),
	}
}

// GenerateContent produces markdown study notes for a topic.
func (s *NoteService) GenerateContent(ctx context.Context, topic string, wordCount int) (string, error) {
	raw, err := s.generator.Generate(ctx, generation.NotePrompt(topic, wordCount))
	if err != nil {
		s.logger.Error("note generation failed",
			"error", err,
			"topic", topic)
		return "", err
	}
	return generation.ExtractText(raw), nil
}

// Save persists a note. The first save of a note ID awards the note-creation
// XP and bumps the notesCreated counter; later saves of the same ID are
// plain updates.
func (s *NoteService) Save(ctx context.Context, userID uuid.UUID, note *domain.Note) error {
	_, err := s.notes.GetByID(ctx, userID, note.ID)
	isNew := errors.Is(err, store.ErrNoteNotFound)
	if err != nil && !isNew {
		return fmt.Errorf("failed to check existing note: %w", err)
	}

	if err := s.notes.Save(ctx, userID, note); err != nil {
		return err
	}

	if isNew {
		if _, err := s.profiles.AddXP(ctx, userID, domain.XPPerNoteCreated, 0, 1); err != nil {
			// The note itself is saved; losing the award is logged, not fatal.
			s.logger.Error("failed to award note creation XP",
				"error", err,
				"user_id", userID,
				"note_id", note.ID)
		} else {
			s.logger.Debug("note creation XP awarded",
				"user_id", userID,
				"note_id", note.ID,
				"xp", domain.XPPerNoteCreated)
		}
	}

	return nil
}

// GetByID retrieves a note.
func (s *NoteService) GetByID(ctx context.Context, userID uuid.UUID, noteID string) (*domain.Note, error) {
	return s.notes.GetByID(ctx, userID, noteID)
}

// List returns the user's notes, newest first.
func (s *NoteService) List(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	return s.notes.List(ctx, userID)
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, userID uuid.UUID, noteID string) error {
	return s.notes.Delete(ctx, userID, noteID)
}

// Watch exposes the store's snapshot subscription.
func (s *NoteService) Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.Note, store.CancelFunc, error) {
	return s.notes.Watch(ctx, userID)
}
