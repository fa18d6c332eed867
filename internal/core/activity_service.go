package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/watchlist/internal/db"
	"github.com/example/watchlist/internal/models"
)

// activityService implements the ActivityService interface.
type activityService struct {
	activityRepo db.ActivityRepository
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService instance.
func NewActivityService(activityRepo db.ActivityRepository, logger *zap.Logger) ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &activityService{activityRepo: activityRepo, logger: logger}
}

// Record stores a list-change entry. Failures are logged and never reach the caller.
func (s *activityService) Record(ctx context.Context, entry models.ActivityLog) {
	if s.activityRepo == nil {
		return
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to record activity",
			zap.String("userID", entry.UserID),
			zap.String("action", entry.Action),
			zap.Int("movieID", entry.MovieID),
			zap.Error(err),
		)
	}
}

// Recent returns the user's latest list changes.
func (s *activityService) Recent(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.activityRepo.ListByUserID(ctx, userID, limit)
}
