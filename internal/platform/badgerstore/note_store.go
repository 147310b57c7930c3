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

const noteCollection = "notes"

// NoteStore implements store.NoteStore on Badger.
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a NoteStore.
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Save upserts a note.
func (s *NoteStore) Save(ctx context.Context, userID uuid.UUID, note *domain.Note) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return s.db.put(userKey(userID.String(), noteCollection, note.ID), note)
}

// GetByID retrieves one note.
func (s *NoteStore) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Note, error) {
	var note domain.Note
	err := s.db.get(userKey(userID.String(), noteCollection, id), &note)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns the user's notes ordered by date descending.
func (s *NoteStore) List(ctx context.Context, userID uuid.UUID) ([]domain.Note, error) {
	return s.list(userID)
}

// Delete removes a note.
func (s *NoteStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	err := s.db.delete(userKey(userID.String(), noteCollection, id))
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrNoteNotFound
	}
	return err
}

// Watch emits the note list on every change.
func (s *NoteStore) Watch(ctx context.Context, userID uuid.UUID) (<-chan []domain.Note, store.CancelFunc, error) {
	prefix := string(userPrefix(userID.String(), noteCollection))
	return watchSnapshots(ctx, s.db, prefix, func() ([]domain.Note, error) {
		return s.list(userID)
	})
}

func (s *NoteStore) list(userID uuid.UUID) ([]domain.Note, error) {
	var notes []domain.Note
	err := s.db.listPrefix(userPrefix(userID.String(), noteCollection), func(val []byte) error {
		var note domain.Note
		if err := json.Unmarshal(val, &note); err != nil {
			return err
		}
		notes = append(notes, note)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Timestamp > notes[j].Timestamp
	})
	return notes, nil
}
