package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/watchlist/internal/db"
	"github.com/example/watchlist/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	now      func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GetOrCreate retrieves the profile for user.UID, creating it if it does not exist.
// An existing profile is refreshed with the identity fields and the sign-in time.
// Returns the profile, a boolean indicating if it was created, and an error if any.
func (s *userService) GetOrCreate(ctx context.Context, user models.User) (*models.UserProfile, bool, error) {
	if user.UID == "" {
		return nil, false, ErrUnauthenticated
	}
	now := s.now().UTC()

	profile, err := s.userRepo.GetByID(ctx, user.UID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", user.UID, err)
		}

		newProfile := &models.UserProfile{
			ID:           user.UID,
			Email:        user.Email,
			DisplayName:  user.DisplayName,
			PhotoURL:     user.PhotoURL,
			CreatedAt:    now,
			LastSignInAt: now,
		}
		createErr := s.userRepo.Create(ctx, newProfile)
		if createErr == nil {
			return newProfile, true, nil
		}
		if !errors.Is(createErr, db.ErrAlreadyExists) {
			return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", user.UID, createErr)
		}
		// Lost a race with a concurrent sign-in; fall through to the update path.
		profile, err = s.userRepo.GetByID(ctx, user.UID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get user by ID '%s' after create conflict: %w", user.UID, err)
		}
	}

	profile.Email = user.Email
	profile.DisplayName = user.DisplayName
	profile.PhotoURL = user.PhotoURL
	profile.LastSignInAt = now
	if err := s.userRepo.Update(ctx, profile); err != nil {
		return nil, false, fmt.Errorf("failed to update user '%s': %w", user.UID, err)
	}
	return profile, false, nil
}

// GetByID retrieves a profile by Firebase Auth UID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	return profile, nil
}
