package domain

import (
	"errors"
	"time"
)

// Note-specific validation errors.
var (
	// ErrNoteIDEmpty is returned when a note ID is empty.
	ErrNoteIDEmpty = errors.New("note ID cannot be empty")

	// ErrNoteTitleEmpty is returned when a note title is empty.
	ErrNoteTitleEmpty = errors.New("note title cannot be empty")
)

// Note is a study note owned by a single user. Notes are created either empty
// (manual) or from a generation result, mutated by the editor, and deleted
// explicitly.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}

// NewNote creates a Note with the given ID, title, and content.
// Content may be empty for a manually created note.
func NewNote(id, title, content string) (*Note, error) {
	now := time.Now()
	note := &Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Date:      now.Format("2006-01-02"),
		Timestamp: now.UnixMilli(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == "" {
		return ErrNoteIDEmpty
	}

	if n.Title == "" {
		return ErrNoteTitleEmpty
	}

	return nil
}
