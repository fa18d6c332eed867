package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/middleware"
	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/internal/tmdb"
)

// MovieHandler handles catalog and membership endpoints.
type MovieHandler struct {
	catalog     core.CatalogService
	feed        core.FeedService
	memberships core.MembershipService
	logger      *zap.Logger
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(catalog core.CatalogService, feed core.FeedService, memberships core.MembershipService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{catalog: catalog, feed: feed, memberships: memberships, logger: logger}
}

func movieIDParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, core.ErrInvalidMovie
	}
	return id, nil
}

// ListMovies handles GET /api/v1/movies?query=&page=&reset=.
// It continues or resets the caller's feed.
func (h *MovieHandler) ListMovies(c *gin.Context) {
	var req models.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters", Details: err.Error()})
		return
	}

	feed, err := h.feed.Load(c.Request.Context(), middleware.VisitorIDFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newFeedResponse(feed))
}

// GetMovie handles GET /api/v1/movies/:id. Signed-in callers also get their memberships.
func (h *MovieHandler) GetMovie(c *gin.Context) {
	id, err := movieIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	movie, err := h.catalog.Movie(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := MovieDetailResponse{Movie: *movie, PosterURL: tmdb.PosterURL(movie.PosterPath, "w500")}
	if user := middleware.CurrentUser(c); user != nil {
		states, err := h.memberships.States(c.Request.Context(), user.UID, id)
		if err != nil {
			h.logger.Warn("Failed to load memberships", zap.Int("movieID", id), zap.Error(err))
		}
		resp.Memberships = states
	}
	c.JSON(http.StatusOK, resp)
}

// GetMemberships handles GET /api/v1/movies/:id/memberships.
func (h *MovieHandler) GetMemberships(c *gin.Context) {
	id, err := movieIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, h.logger, core.ErrUnauthenticated)
		return
	}

	states, err := h.memberships.States(c.Request.Context(), user.UID, id)
	if err != nil {
		h.logger.Warn("Failed to load memberships", zap.Int("movieID", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to load list membership", Details: "memberships are unknown"})
		return
	}
	c.JSON(http.StatusOK, MembershipsResponse{MovieID: id, Memberships: states})
}

// ToggleMembership handles POST /api/v1/movies/:id/lists/:category/toggle.
// The movie is fetched from the catalog only when the toggle adds it.
func (h *MovieHandler) ToggleMembership(c *gin.Context) {
	id, err := movieIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, h.logger, core.ErrUnauthenticated)
		return
	}

	membership, err := h.memberships.Toggle(c.Request.Context(), user.UID, category, id, func(ctx context.Context) (*models.Movie, error) {
		return h.catalog.Movie(ctx, id)
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{
		MovieID:    id,
		Category:   category,
		Membership: membership,
		Message:    category.ToggleMessage(membership),
	})
}
