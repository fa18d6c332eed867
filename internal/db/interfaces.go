package db

import (
	"context"

	"github.com/example/watchlist/internal/models"
)

// EntryLoader builds the snapshot written when a toggle adds a movie.
type EntryLoader func(ctx context.Context) (models.ListEntry, error)

// ListRepository stores list entries at users/{uid}/{category}/{movieId}.
// Entries are only ever added through Toggle.
type ListRepository interface {
	Exists(ctx context.Context, userID string, category models.Category, movieID int) (bool, error)
	Delete(ctx context.Context, userID string, category models.Category, movieID int) error
	GetAll(ctx context.Context, userID string, category models.Category) ([]models.ListEntry, error)
	// Toggle deletes the entry when it exists and creates it otherwise, atomically.
	// load is called only on the create path. Toggle reports whether the entry
	// exists afterwards.
	Toggle(ctx context.Context, userID string, category models.Category, movieID int, load EntryLoader) (bool, error)
}

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
	Update(ctx context.Context, profile *models.UserProfile) error
}

// ActivityRepository defines the interface for list activity log storage.
type ActivityRepository interface {
	Create(ctx context.Context, entry models.ActivityLog) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error)
}
