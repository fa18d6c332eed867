package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/pkg/cache"
)

// feedService implements FeedService. Feeds live in the cache under feed:{key}.
type feedService struct {
	catalog CatalogService
	cache   cache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewFeedService creates a FeedService.
func NewFeedService(catalog CatalogService, c cache.Cache, ttl time.Duration, logger *zap.Logger) FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &feedService{catalog: catalog, cache: c, ttl: ttl, logger: logger}
}

func feedCacheKey(feedKey string) string {
	return "feed:" + feedKey
}

// Current returns the feed held for feedKey, or an empty feed.
func (s *feedService) Current(ctx context.Context, feedKey string) (*models.Feed, error) {
	feed := &models.Feed{}
	if feedKey == "" {
		return feed, nil
	}
	if err := cache.GetJSON(ctx, s.cache, feedCacheKey(feedKey), feed); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return &models.Feed{}, nil
		}
		return &models.Feed{}, err
	}
	return feed, nil
}

// Load fetches a page and folds it into the held feed.
//
// A reset, a changed query or an empty held feed replaces the held movies with
// the requested page (default 1). Otherwise the request continues the held feed:
// the page defaults to the next one and the result is merged, first occurrence
// winning. When the held feed has no more pages it is returned unchanged.
// On catalog failure the held feed is left as it was.
func (s *feedService) Load(ctx context.Context, feedKey string, req models.FeedRequest) (*models.Feed, error) {
	query := strings.TrimSpace(req.Query)

	held, err := s.Current(ctx, feedKey)
	if err != nil {
		s.logger.Warn("Failed to read held feed, starting over", zap.String("feedKey", feedKey), zap.Error(err))
	}

	reset := req.Reset || query != held.Query || held.Page == 0
	page := req.Page
	if reset {
		if page < 1 {
			page = 1
		}
	} else {
		if !held.HasMore() {
			return held, nil
		}
		if page < 1 {
			page = held.NextPage()
		}
	}

	result, err := s.catalog.Page(ctx, query, page)
	if err != nil {
		return nil, err
	}

	feed := held
	if reset {
		feed = &models.Feed{}
	}
	feed.Apply(*result, query, reset)

	if feedKey != "" {
		if err := cache.SetJSON(ctx, s.cache, feedCacheKey(feedKey), feed, s.ttl); err != nil {
			s.logger.Warn("Failed to persist feed", zap.String("feedKey", feedKey), zap.Error(err))
		}
	}
	return feed, nil
}
