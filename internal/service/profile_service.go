package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/edupilot/edupilot-api/internal/domain"
	"github.com/edupilot/edupilot-api/internal/store"
)

// ProfileService exposes the per-user stats record.
type ProfileService struct {
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles store.ProfileStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger.With("component", "profile_service"),
	}
}

// Get retrieves the user's profile.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

// UpdateName changes the display name. XP, level, and counters are owned by
// the reward paths and cannot be edited here.
func (s *ProfileService) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", store.ErrInvalidEntity)
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Name = name
	if err := s.profiles.Put(ctx, userID, profile); err != nil {
		return nil, err
	}

	s.logger.Debug("profile name updated", "user_id", userID)
	return profile, nil
}

// Watch exposes the store's snapshot subscription.
func (s *ProfileService) Watch(ctx context.Context, userID uuid.UUID) (<-chan domain.Profile, store.CancelFunc, error) {
	return s.profiles.Watch(ctx, userID)
}
