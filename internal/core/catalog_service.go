package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/internal/tmdb"
	"github.com/example/watchlist/pkg/cache"
)

// catalogService implements CatalogService with a read-through cache in front of TMDb.
type catalogService struct {
	catalog MovieCatalog
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCatalogService creates a CatalogService. A nil cache or a non-positive ttl disables caching.
func NewCatalogService(catalog MovieCatalog, c cache.Cache, ttl time.Duration, logger *zap.Logger) CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogService{catalog: catalog, cache: c, ttl: ttl, logger: logger}
}

func (s *catalogService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// Page returns one catalog page. A blank query selects the popular listing.
func (s *catalogService) Page(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	query = strings.TrimSpace(query)
	if page < 1 {
		page = 1
	}

	key := "catalog:popular:" + strconv.Itoa(page)
	if query != "" {
		key = "catalog:search:" + url.QueryEscape(query) + ":" + strconv.Itoa(page)
	}

	var cached models.MoviePage
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		result *models.MoviePage
		err    error
	)
	if query == "" {
		result, err = s.catalog.Popular(ctx, page)
	} else {
		result, err = s.catalog.Search(ctx, query, page)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if result.Results == nil {
		result.Results = []models.Movie{}
	}

	s.store(ctx, key, result)
	return result, nil
}

// Movie returns the details of one movie.
func (s *catalogService) Movie(ctx context.Context, id int) (*models.Movie, error) {
	if id <= 0 {
		return nil, ErrInvalidMovie
	}

	key := "catalog:movie:" + strconv.Itoa(id)
	var cached models.Movie
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	movie, err := s.catalog.Movie(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMovieNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	s.store(ctx, key, movie)
	return movie, nil
}

func (s *catalogService) lookup(ctx context.Context, key string, dst any) bool {
	if !s.cacheEnabled() {
		return false
	}
	err := cache.GetJSON(ctx, s.cache, key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *catalogService) store(ctx context.Context, key string, value any) {
	if !s.cacheEnabled() {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, key, value, s.ttl); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
