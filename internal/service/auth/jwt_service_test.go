package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupilot/edupilot-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 60,
	}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "tooshort", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	verifier, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "acompletelydifferentsecretthatis32chars",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)

	// Issue a token in the past, then validate with real time.
	issuedAt := time.Now().Add(-3 * time.Hour)
	impl.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)

	// Token expired 1 minute ago; skew allows 2 minutes of drift.
	issuedAt := time.Now().Add(-61 * time.Minute)
	impl.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher()

	hashed, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hashed)

	assert.NoError(t, hasher.Compare(hashed, "correct-horse-battery"))
	assert.Error(t, hasher.Compare(hashed, "wrong-password"))
}
