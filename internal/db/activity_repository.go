package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/example/watchlist/internal/models"
)

const activityCollection = "activity"

// firestoreActivityRepository implements the ActivityRepository interface using Firestore.
type firestoreActivityRepository struct {
	client *firestore.Client
}

// NewFirestoreActivityRepository creates a new instance of firestoreActivityRepository.
func NewFirestoreActivityRepository(client *firestore.Client) ActivityRepository {
	return &firestoreActivityRepository{client: client}
}

// Create appends an entry to users/{uid}/activity with an auto-generated ID.
// Timestamp is set server-side.
func (r *firestoreActivityRepository) Create(ctx context.Context, entry models.ActivityLog) error {
	if entry.UserID == "" {
		return errors.New("activity entry requires a user ID")
	}
	docRef := r.client.Collection(usersCollection).Doc(entry.UserID).Collection(activityCollection).NewDoc()
	if _, err := docRef.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// ListByUserID returns the newest entries first.
func (r *firestoreActivityRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	query := r.client.Collection(usersCollection).Doc(userID).Collection(activityCollection).
		OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var logs []*models.ActivityLog
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate activity for user '%s': %w", userID, err)
		}
		var entry models.ActivityLog
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode activity entry %s: %w", docSnap.Ref.ID, err)
		}
		entry.ID = docSnap.Ref.ID
		logs = append(logs, &entry)
	}
	return logs, nil
}
