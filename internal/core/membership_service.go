package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/watchlist/internal/db"
	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/pkg/cache"
)

// membershipService implements the MembershipService interface.
type membershipService struct {
	listRepo db.ListRepository
	cache    cache.Cache
	cacheTTL time.Duration
	activity ActivityService
	events   EventPublisher
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// MembershipDeps groups the optional collaborators of the membership service.
type MembershipDeps struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Activity ActivityService
	Events   EventPublisher
	Logger   *zap.Logger
}

// NewMembershipService creates a new MembershipService instance.
func NewMembershipService(listRepo db.ListRepository, deps MembershipDeps) MembershipService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &membershipService{
		listRepo: listRepo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		activity: deps.Activity,
		events:   deps.Events,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

func listCacheKey(userID string, category models.Category) string {
	return "lists:" + userID + ":" + string(category)
}

func inFlightKey(userID string, category models.Category, movieID int) string {
	return userID + "/" + string(category) + "/" + strconv.Itoa(movieID)
}

func validate(userID string, category models.Category, movieID int) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if movieID <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidMovie, movieID)
	}
	return nil
}

// acquire marks the triple busy. It returns false when a change is already running.
func (s *membershipService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *membershipService) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

// InFlight reports whether a toggle or removal is running for the triple.
func (s *membershipService) InFlight(userID string, category models.Category, movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[inFlightKey(userID, category, movieID)]
	return busy
}

// Statuses checks the movie against every category concurrently.
func (s *membershipService) Statuses(ctx context.Context, userID string, movieID int) (map[models.Category]models.Membership, error) {
	if err := validate(userID, models.CategoryFavorites, movieID); err != nil {
		return nil, err
	}

	results := make([]models.Membership, len(models.Categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range models.Categories {
		g.Go(func() error {
			exists, err := s.listRepo.Exists(gctx, userID, category, movieID)
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", category, err)
			}
			results[i] = models.MembershipFromExists(exists)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statuses := make(map[models.Category]models.Membership, len(results))
	for i, category := range models.Categories {
		statuses[category] = results[i]
	}
	return statuses, nil
}

// States is Statuses shaped for display, with the busy flag of each category.
func (s *membershipService) States(ctx context.Context, userID string, movieID int) ([]models.MembershipState, error) {
	statuses, err := s.Statuses(ctx, userID, movieID)

	states := make([]models.MembershipState, 0, len(models.Categories))
	for _, category := range models.Categories {
		state := models.MembershipState{
			Category:   category,
			Membership: models.MembershipUnknown,
			Busy:       s.InFlight(userID, category, movieID),
		}
		if err == nil {
			state.Membership = statuses[category]
		}
		states = append(states, state)
	}
	return states, err
}

// Toggle adds the movie to the list when absent and removes it when present.
// The returned membership is the state confirmed by the store.
func (s *membershipService) Toggle(ctx context.Context, userID string, category models.Category, movieID int, load MovieLoader) (models.Membership, error) {
	if err := validate(userID, category, movieID); err != nil {
		return models.MembershipUnknown, err
	}

	key := inFlightKey(userID, category, movieID)
	if !s.acquire(key) {
		return models.MembershipUnknown, ErrToggleInFlight
	}
	defer s.release(key)

	var title string
	present, err := s.listRepo.Toggle(ctx, userID, category, movieID, func(ctx context.Context) (models.ListEntry, error) {
		movie, err := load(ctx)
		if err != nil {
			return models.ListEntry{}, err
		}
		title = movie.Title
		return models.NewListEntry(*movie), nil
	})
	if err != nil {
		return models.MembershipUnknown, err
	}

	action, eventType := models.ActionListRemove, EventListEntryRemoved
	if present {
		action, eventType = models.ActionListAdd, EventListEntryAdded
	}
	s.afterChange(ctx, userID, category, movieID, title, action, eventType)

	return models.MembershipFromExists(present), nil
}

// Remove deletes the movie from the list. Removing an absent movie succeeds.
func (s *membershipService) Remove(ctx context.Context, userID string, category models.Category, movieID int) error {
	if err := validate(userID, category, movieID); err != nil {
		return err
	}

	key := inFlightKey(userID, category, movieID)
	if !s.acquire(key) {
		return ErrToggleInFlight
	}
	defer s.release(key)

	if err := s.listRepo.Delete(ctx, userID, category, movieID); err != nil {
		return err
	}
	s.afterChange(ctx, userID, category, movieID, "", models.ActionListRemove, EventListEntryRemoved)
	return nil
}

func (s *membershipService) afterChange(ctx context.Context, userID string, category models.Category, movieID int, title, action, eventType string) {
	s.invalidate(ctx, userID, category)

	if s.activity != nil {
		s.activity.Record(ctx, models.ActivityLog{
			UserID:   userID,
			Action:   action,
			Category: category,
			MovieID:  movieID,
			Title:    title,
		})
	}

	if s.events != nil {
		err := s.events.Publish(ctx, Event{
			Type:     eventType,
			UID:      userID,
			MovieID:  movieID,
			Title:    title,
			Category: category,
		})
		if err != nil {
			s.logger.Warn("Failed to publish list event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

// List returns the entries of one list, served from the cache when possible.
func (s *membershipService) List(ctx context.Context, userID string, category models.Category) ([]models.ListEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	key := listCacheKey(userID, category)
	if s.cache != nil {
		var cached []models.ListEntry
		err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("List cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	entries, err := s.listRepo.GetAll(ctx, userID, category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, entries, s.cacheTTL); err != nil {
			s.logger.Warn("List cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return entries, nil
}

func (s *membershipService) invalidate(ctx context.Context, userID string, categories ...models.Category) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(categories))
	for _, c := range categories {
		keys = append(keys, listCacheKey(userID, c))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("List cache invalidation failed", zap.String("userID", userID), zap.Error(err))
	}
}

// WatchAuthState drops cached lists whenever a user's identity changes, so a
// signed-out user's lists are no longer held and a fresh sign-in loads anew.
func (s *membershipService) WatchAuthState(source AuthStateSource) func() {
	return source.Subscribe(func(event AuthEvent) {
		if event.UID == "" {
			return
		}
		s.invalidate(context.Background(), event.UID, models.Categories...)
		if event.SignedOut() {
			s.logger.Debug("Purged cached lists after sign-out", zap.String("userID", event.UID))
		}
	})
}
