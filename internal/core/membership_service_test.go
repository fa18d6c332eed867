package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/pkg/cache"
)

var inception = models.Movie{
	ID:          27205,
	Title:       "Inception",
	PosterPath:  "/inception.jpg",
	VoteAverage: 8.4,
	ReleaseDate: "2010-07-15",
	Overview:    "A thief who steals corporate secrets through dream-sharing technology.",
	Runtime:     148,
}

func loadMovie(m models.Movie) MovieLoader {
	return func(context.Context) (*models.Movie, error) {
		return &m, nil
	}
}

type membershipFixture struct {
	repo     *fakeListRepo
	cache    *cache.MemoryCache
	activity *fakeActivityRepo
	events   *fakePublisher
	svc      MembershipService
}

func newMembershipFixture() *membershipFixture {
	f := &membershipFixture{
		repo:     newFakeListRepo(),
		cache:    cache.NewMemoryCache(0),
		activity: &fakeActivityRepo{},
		events:   &fakePublisher{},
	}
	f.svc = NewMembershipService(f.repo, MembershipDeps{
		Cache:    f.cache,
		CacheTTL: time.Minute,
		Activity: NewActivityService(f.activity, nil),
		Events:   f.events,
	})
	return f
}

func TestMembershipToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("add then remove 27205", func(t *testing.T) {
		f := newMembershipFixture()

		got, err := f.svc.Toggle(ctx, "uid-1", models.CategoryFavorites, inception.ID, loadMovie(inception))
		require.NoError(t, err)
		assert.Equal(t, models.MembershipPresent, got)

		entries := f.repo.entries("uid-1", models.CategoryFavorites)
		require.Len(t, entries, 1)
		assert.Equal(t, models.ListEntry{
			ID:          27205,
			Title:       "Inception",
			PosterPath:  "/inception.jpg",
			VoteAverage: 8.4,
			ReleaseDate: "2010-07-15",
		}, entries[0])

		got, err = f.svc.Toggle(ctx, "uid-1", models.CategoryFavorites, inception.ID, loadMovie(inception))
		require.NoError(t, err)
		assert.Equal(t, models.MembershipAbsent, got)
		assert.Empty(t, f.repo.entries("uid-1", models.CategoryFavorites))

		assert.Equal(t, []string{EventListEntryAdded, EventListEntryRemoved}, f.events.types())
		require.Len(t, f.activity.entries, 2)
		assert.Equal(t, models.ActionListAdd, f.activity.entries[0].Action)
		assert.Equal(t, models.ActionListRemove, f.activity.entries[1].Action)
	})

	t.Run("double toggle restores every category", func(t *testing.T) {
		for _, initial := range []bool{false, true} {
			f := newMembershipFixture()
			if initial {
				f.repo.seed("uid-1", models.CategoryWatched, models.NewListEntry(inception))
			}
			before, err := f.svc.Statuses(ctx, "uid-1", inception.ID)
			require.NoError(t, err)

			_, err = f.svc.Toggle(ctx, "uid-1", models.CategoryWatched, inception.ID, loadMovie(inception))
			require.NoError(t, err)
			_, err = f.svc.Toggle(ctx, "uid-1", models.CategoryWatched, inception.ID, loadMovie(inception))
			require.NoError(t, err)

			after, err := f.svc.Statuses(ctx, "uid-1", inception.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		}
	})

	t.Run("overlapping toggle is rejected while busy", func(t *testing.T) {
		f := newMembershipFixture()
		f.repo.toggleGate = make(chan struct{})
		f.repo.toggleStarted = make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		var first models.Membership
		var firstErr error
		go func() {
			defer wg.Done()
			first, firstErr = f.svc.Toggle(ctx, "uid-1", models.CategoryWatchLater, inception.ID, loadMovie(inception))
		}()

		<-f.repo.toggleStarted
		assert.True(t, f.svc.InFlight("uid-1", models.CategoryWatchLater, inception.ID))
		assert.False(t, f.svc.InFlight("uid-1", models.CategoryFavorites, inception.ID))

		_, err := f.svc.Toggle(ctx, "uid-1", models.CategoryWatchLater, inception.ID, loadMovie(inception))
		assert.ErrorIs(t, err, ErrToggleInFlight)

		states, err := f.svc.States(ctx, "uid-1", inception.ID)
		require.NoError(t, err)
		assert.True(t, states[2].Busy)
		assert.Equal(t, models.MembershipAbsent, states[2].Membership, "busy never changes the confirmed state")

		close(f.repo.toggleGate)
		wg.Wait()
		require.NoError(t, firstErr)
		assert.Equal(t, models.MembershipPresent, first)
		assert.False(t, f.svc.InFlight("uid-1", models.CategoryWatchLater, inception.ID))
		assert.Len(t, f.repo.entries("uid-1", models.CategoryWatchLater), 1)
	})

	t.Run("failure reports unknown and changes nothing", func(t *testing.T) {
		f := newMembershipFixture()
		f.repo.err = errors.New("permission denied")

		got, err := f.svc.Toggle(ctx, "uid-1", models.CategoryFavorites, inception.ID, loadMovie(inception))
		require.Error(t, err)
		assert.Equal(t, models.MembershipUnknown, got)
		assert.Empty(t, f.events.types())
		assert.False(t, f.svc.InFlight("uid-1", models.CategoryFavorites, inception.ID))
	})

	t.Run("removal does not load the movie", func(t *testing.T) {
		f := newMembershipFixture()
		f.repo.seed("uid-1", models.CategoryFavorites, models.NewListEntry(inception))

		got, err := f.svc.Toggle(ctx, "uid-1", models.CategoryFavorites, inception.ID, func(context.Context) (*models.Movie, error) {
			return nil, ErrCatalogUnavailable
		})
		require.NoError(t, err)
		assert.Equal(t, models.MembershipAbsent, got)
		assert.Empty(t, f.repo.entries("uid-1", models.CategoryFavorites))
		assert.Equal(t, []string{EventListEntryRemoved}, f.events.types())
	})

	t.Run("add fails when the movie cannot be loaded", func(t *testing.T) {
		f := newMembershipFixture()

		got, err := f.svc.Toggle(ctx, "uid-1", models.CategoryFavorites, inception.ID, func(context.Context) (*models.Movie, error) {
			return nil, ErrCatalogUnavailable
		})
		assert.ErrorIs(t, err, ErrCatalogUnavailable)
		assert.Equal(t, models.MembershipUnknown, got)
		assert.Empty(t, f.repo.entries("uid-1", models.CategoryFavorites))
		assert.Empty(t, f.events.types())
		assert.False(t, f.svc.InFlight("uid-1", models.CategoryFavorites, inception.ID))
	})

	t.Run("validation", func(t *testing.T) {
		f := newMembershipFixture()

		_, err := f.svc.Toggle(ctx, "", models.CategoryFavorites, inception.ID, loadMovie(inception))
		assert.ErrorIs(t, err, ErrUnauthenticated)
		_, err = f.svc.Toggle(ctx, "uid-1", models.Category("seen"), inception.ID, loadMovie(inception))
		assert.ErrorIs(t, err, ErrInvalidCategory)
		_, err = f.svc.Toggle(ctx, "uid-1", models.CategoryFavorites, 0, loadMovie(models.Movie{}))
		assert.ErrorIs(t, err, ErrInvalidMovie)
	})
}

func TestMembershipStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("checks every category", func(t *testing.T) {
		f := newMembershipFixture()
		f.repo.seed("uid-1", models.CategoryWatched, models.NewListEntry(inception))

		statuses, err := f.svc.Statuses(ctx, "uid-1", inception.ID)
		require.NoError(t, err)
		assert.Equal(t, map[models.Category]models.Membership{
			models.CategoryFavorites:  models.MembershipAbsent,
			models.CategoryWatched:    models.MembershipPresent,
			models.CategoryWatchLater: models.MembershipAbsent,
		}, statuses)
		assert.Equal(t, 3, f.repo.existsCalls)
	})

	t.Run("failure yields unknown states", func(t *testing.T) {
		f := newMembershipFixture()
		f.repo.err = errors.New("unavailable")

		states, err := f.svc.States(ctx, "uid-1", inception.ID)
		require.Error(t, err)
		require.Len(t, states, 3)
		for _, s := range states {
			assert.Equal(t, models.MembershipUnknown, s.Membership)
		}
	})
}

func TestMembershipListCache(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture()
	f.repo.seed("uid-1", models.CategoryFavorites, models.NewListEntry(inception))

	entries, err := f.svc.List(ctx, "uid-1", models.CategoryFavorites)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = f.svc.List(ctx, "uid-1", models.CategoryFavorites)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.getAllCalls, "second read served from cache")

	require.NoError(t, f.svc.Remove(ctx, "uid-1", models.CategoryFavorites, inception.ID))
	entries, err = f.svc.List(ctx, "uid-1", models.CategoryFavorites)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 2, f.repo.getAllCalls, "removal invalidates the cached list")

	_, err = f.svc.List(ctx, "", models.CategoryFavorites)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMembershipWatchAuthState(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture()
	broadcaster := NewAuthBroadcaster()
	unsubscribe := f.svc.WatchAuthState(broadcaster)
	defer unsubscribe()

	for _, c := range models.Categories {
		_, err := f.svc.List(ctx, "uid-1", c)
		require.NoError(t, err)
	}
	_, err := f.cache.Get(ctx, listCacheKey("uid-1", models.CategoryWatched))
	require.NoError(t, err)

	broadcaster.Publish(AuthEvent{VisitorID: "v", UID: "uid-1"})

	for _, c := range models.Categories {
		_, err := f.cache.Get(ctx, listCacheKey("uid-1", c))
		assert.ErrorIs(t, err, cache.ErrCacheMiss, "list %s should be purged on sign-out", c)
	}
}
