package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

func newTestNoteService(gen *fakeGenerator) (*NoteService, *fakeNoteStore, *fakeProfileStore) {
	notes := newFakeNoteStore()
	profiles := newFakeProfileStore()
	svc := NewNoteService(notes, profiles, gen, slog.Default())
	return svc, notes, profiles
}

func TestNoteServiceGenerateContent(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"# Photosynthesis\n\nPlants make food."}}
	svc, _, _ := newTestNoteService(gen)

	content, err := svc.GenerateContent(context.Background(), "Photosynthesis", 300)
	require.NoError(t, err)
	assert.Contains(t, content, "Photosynthesis")
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Photosynthesis")
	assert.Contains(t, gen.prompts[0], "300")
}

func TestNoteServiceFirstSaveAwardsXP(t *testing.T) {
	svc, _, profiles := newTestNoteService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profiles.Put(ctx, userID, domain.NewProfile("Ada", "ada@example.com")))

	note, err := domain.NewNote("n1", "Photosynthesis", "# Notes")
	require.NoError(t, err)

	require.NoError(t, svc.Save(ctx, userID, note))

	profile, err := profiles.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.XPPerNoteCreated, profile.XP)
	assert.Equal(t, 1, profile.NotesCreated)

	// Updating the same note is not a second creation.
	note.Content = "# Notes\nedited"
	require.NoError(t, svc.Save(ctx, userID, note))

	profile, err = profiles.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.XPPerNoteCreated, profile.XP)
	assert.Equal(t, 1, profile.NotesCreated)
}

func TestNoteServiceSaveSurvivesMissingProfile(t *testing.T) {
	svc, notes, _ := newTestNoteService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()

	note, err := domain.NewNote("n1", "Photosynthesis", "# Notes")
	require.NoError(t, err)

	// The award fails (no profile), but the note is still saved.
	require.NoError(t, svc.Save(ctx, userID, note))

	_, err = notes.GetByID(ctx, userID, "n1")
	assert.NoError(t, err)
}

func TestNoteServiceDelete(t *testing.T) {
	svc, _, profiles := newTestNoteService(&fakeGenerator{})
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profiles.Put(ctx, userID, domain.NewProfile("Ada", "ada@example.com")))

	note, err := domain.NewNote("n1", "Photosynthesis", "# Notes")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, userID, note))

	require.NoError(t, svc.Delete(ctx, userID, "n1"))
	assert.ErrorIs(t, svc.Delete(ctx, userID, "n1"), store.ErrNoteNotFound)

	// Deleting does not claw back the creation XP.
	profile, err := profiles.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.XPPerNoteCreated, profile.XP)
}
