package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/service/auth"
	"github.com/edupilot/edupilot-api/internal/store"
)

// UserService provides account registration and authentication.
type UserService interface {
	// Register creates a new account with the given email and password and
	// seeds an empty study profile for it.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate verifies the email/password pair and returns the account.
	// Returns ErrInvalidCredentials when either part doesn't match.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore    store.UserStore
	profileStore store.ProfileStore
	hasher       auth.PasswordHasher
	logger       *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	profileStore store.ProfileStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) UserService {
	return &UserServiceImpl{
		userStore:    userStore,
		profileStore: profileStore,
		hasher:       hasher,
		logger:       logger.With("component", "user_service"),
	}
}

// Register creates a new user with the specified email and password.
func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		s.logger.Debug("rejected invalid registration",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to create user with existing email",
				"email", email)
		} else {
			s.logger.Error("failed to save user",
				"error", err,
				"email", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// A fresh profile accompanies every account. The display name starts as
	// the local part of the email; the profile page lets the user change it.
	profile := domain.NewProfile(displayNameFor(user.Email), user.Email)
	if err := s.profileStore.Put(ctx, user.ID, profile); err != nil {
		s.logger.Error("failed to seed profile for new user",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login attempt for unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to retrieve user by email",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password",
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Debug("user authenticated", "user_id", user.ID)
	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to retrieve user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// displayNameFor derives an initial display name from an email address.
func displayNameFor(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
