package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/internal/tmdb"
	"github.com/example/watchlist/pkg/cache"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query uses popular listing", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.popular[1] = models.MoviePage{Page: 1, TotalPages: 2, Results: []models.Movie{{ID: 1}}}
		svc := NewCatalogService(catalog, nil, 0, nil)

		page, err := svc.Page(ctx, "   ", 0)
		require.NoError(t, err)
		assert.Equal(t, "popular:1", catalog.lastCall)
		assert.Len(t, page.Results, 1)
	})

	t.Run("query is trimmed", func(t *testing.T) {
		catalog := newFakeCatalog()
		svc := NewCatalogService(catalog, nil, 0, nil)

		page, err := svc.Page(ctx, "  dune ", 2)
		require.NoError(t, err)
		assert.Equal(t, "search:dune:2", catalog.lastCall)
		assert.NotNil(t, page.Results)
	})

	t.Run("read-through cache", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.movies[27205] = models.Movie{ID: 27205, Title: "Inception"}
		svc := NewCatalogService(catalog, cache.NewMemoryCache(0), time.Minute, nil)

		for i := 0; i < 3; i++ {
			movie, err := svc.Movie(ctx, 27205)
			require.NoError(t, err)
			assert.Equal(t, "Inception", movie.Title)
		}
		assert.Equal(t, 1, catalog.Calls())

		_, err := svc.Page(ctx, "", 1)
		require.NoError(t, err)
		_, err = svc.Page(ctx, "", 1)
		require.NoError(t, err)
		assert.Equal(t, 2, catalog.Calls())
	})

	t.Run("errors", func(t *testing.T) {
		catalog := newFakeCatalog()
		svc := NewCatalogService(catalog, nil, 0, nil)

		_, err := svc.Movie(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidMovie)

		catalog.err = &tmdb.APIError{StatusCode: 404}
		_, err = svc.Movie(ctx, 99)
		assert.ErrorIs(t, err, ErrMovieNotFound)

		catalog.err = errors.New("connection refused")
		_, err = svc.Page(ctx, "", 1)
		assert.ErrorIs(t, err, ErrCatalogUnavailable)
	})
}
