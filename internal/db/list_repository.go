package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/watchlist/internal/models"
)

// firestoreListRepository implements the ListRepository interface using Firestore.
type firestoreListRepository struct {
	client *firestore.Client
}

// NewFirestoreListRepository creates a new instance of firestoreListRepository.
func NewFirestoreListRepository(client *firestore.Client) ListRepository {
	return &firestoreListRepository{client: client}
}

func (r *firestoreListRepository) collection(userID string, category models.Category) (*firestore.CollectionRef, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%q: %w", category, models.ErrUnknownCategory)
	}
	return r.client.Collection(usersCollection).Doc(userID).Collection(string(category)), nil
}

func (r *firestoreListRepository) doc(userID string, category models.Category, movieID int) (*firestore.DocumentRef, error) {
	col, err := r.collection(userID, category)
	if err != nil {
		return nil, err
	}
	if movieID <= 0 {
		return nil, fmt.Errorf("invalid movie ID %d", movieID)
	}
	return col.Doc(models.MovieDocID(movieID)), nil
}

// Exists reports whether the movie is in the user's list.
func (r *firestoreListRepository) Exists(ctx context.Context, userID string, category models.Category, movieID int) (bool, error) {
	ref, err := r.doc(userID, category, movieID)
	if err != nil {
		return false, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s/%s/%d: %w", userID, category, movieID, err)
	}
	return snap.Exists(), nil
}

// Delete removes the entry document. Deleting an absent entry is not an error.
func (r *firestoreListRepository) Delete(ctx context.Context, userID string, category models.Category, movieID int) error {
	ref, err := r.doc(userID, category, movieID)
	if err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to remove movie %d from %s: %w", movieID, category, err)
	}
	return nil
}

// GetAll returns every entry in the list, ordered by document ID.
func (r *firestoreListRepository) GetAll(ctx context.Context, userID string, category models.Category) ([]models.ListEntry, error) {
	col, err := r.collection(userID, category)
	if err != nil {
		return nil, err
	}

	iter := col.Documents(ctx)
	defer iter.Stop()

	entries := make([]models.ListEntry, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s for user '%s': %w", category, userID, err)
		}
		var entry models.ListEntry
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", docSnap.Ref.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Toggle flips membership inside a transaction so that two concurrent toggles
// serialize instead of both observing the same state.
func (r *firestoreListRepository) Toggle(ctx context.Context, userID string, category models.Category, movieID int, load EntryLoader) (bool, error) {
	ref, err := r.doc(userID, category, movieID)
	if err != nil {
		return false, err
	}

	var present bool
	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if snap != nil && snap.Exists() {
			present = false
			return tx.Delete(ref)
		}
		entry, err := load(ctx)
		if err != nil {
			return err
		}
		if entry.ID != movieID {
			return fmt.Errorf("snapshot is for movie %d", entry.ID)
		}
		present = true
		return tx.Create(ref, entry)
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle movie %d in %s: %w", movieID, category, err)
	}
	return present, nil
}
