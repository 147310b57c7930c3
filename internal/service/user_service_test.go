package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot/edupilot-api/internal/service/auth"
	"github.com/edupilot/edupilot-api/internal/store"
)

func newTestUserService() (UserService, *fakeUserStore, *fakeProfileStore) {
	users := newFakeUserStore()
	profiles := newFakeProfileStore()
	svc := NewUserService(users, profiles, auth.NewBcryptHasher(), slog.Default())
	return svc, users, profiles
}

func TestUserServiceRegister(t *testing.T) {
	svc, users, profiles := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Empty(t, user.Password, "plaintext password is cleared after hashing")
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "correct-horse-battery", user.HashedPassword)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)

	// Registration seeds a level-1 profile named after the email local part.
	profile, err := profiles.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, 0, profile.XP)
	assert.Equal(t, 1, profile.Level)
}

func TestUserServiceRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ada@example.com", "another-password-1")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserServiceRegisterInvalidInput(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "correct-horse-battery")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "ada@example.com", "short")
	assert.Error(t, err)
}

func TestUserServiceAuthenticate(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
