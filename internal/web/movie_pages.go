package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/models"
)

// Home renders the browse/search grid. "?more=1" continues the held feed;
// anything else starts a new one for the given query.
func (h *Handler) Home(c *gin.Context) {
	session := SessionFrom(c)
	req := models.FeedRequest{Query: c.Query("query"), Reset: c.Query("more") != "1"}

	data := homePage{Page: h.page(c, "")}
	feed, err := h.feed.Load(c.Request.Context(), session.VisitorID, req)
	if err != nil {
		h.logger.Warn("Failed to load feed", zap.String("query", req.Query), zap.Error(err))
		data.Flash = &Flash{Kind: "error", Message: FlashMoviesFailed}
		feed, _ = h.feed.Current(c.Request.Context(), session.VisitorID)
		if feed == nil {
			feed = &models.Feed{}
		}
	}
	data.Feed = feed
	c.HTML(http.StatusOK, pageHome, data)
}

// Movie renders the detail page with the caller's list buttons.
func (h *Handler) Movie(c *gin.Context) {
	session := SessionFrom(c)
	data := moviePage{Page: h.page(c, "")}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		data.NotFound = true
		c.HTML(http.StatusNotFound, pageMovie, data)
		return
	}

	movie, err := h.catalog.Movie(c.Request.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, core.ErrMovieNotFound) {
			status = http.StatusNotFound
			data.NotFound = true
		} else {
			h.logger.Warn("Failed to load movie", zap.Int("movieID", id), zap.Error(err))
			data.Flash = &Flash{Kind: "error", Message: FlashMovieLoadFailed}
		}
		c.HTML(status, pageMovie, data)
		return
	}
	data.Movie = movie
	data.Title = movie.Title

	if !session.SignedIn() {
		data.Buttons = anonymousButtons(id)
		c.HTML(http.StatusOK, pageMovie, data)
		return
	}

	states, err := h.memberships.States(c.Request.Context(), session.UID(), id)
	if err != nil {
		h.logger.Warn("Failed to check list membership", zap.Int("movieID", id), zap.Error(err))
	}
	data.Buttons = movieButtons(id, states)
	c.HTML(http.StatusOK, pageMovie, data)
}

// Toggle flips the movie's membership in one list and redirects back. The
// catalog is only consulted when the movie is being added.
func (h *Handler) Toggle(c *gin.Context) {
	session := SessionFrom(c)
	back := "/movies/" + c.Param("id")

	if !session.SignedIn() {
		setFlash(c, "error", FlashSignInFirst)
		redirect(c, back)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		setFlash(c, "error", FlashOperationFailed)
		redirect(c, "/")
		return
	}
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		setFlash(c, "error", FlashOperationFailed)
		redirect(c, back)
		return
	}

	membership, err := h.memberships.Toggle(c.Request.Context(), session.UID(), category, id, func(ctx context.Context) (*models.Movie, error) {
		return h.catalog.Movie(ctx, id)
	})
	if err != nil {
		h.logger.Warn("Toggle failed",
			zap.String("userID", session.UID()),
			zap.String("category", string(category)),
			zap.Int("movieID", id),
			zap.Error(err))
		message := FlashOperationFailed
		if errors.Is(err, core.ErrCatalogUnavailable) || errors.Is(err, core.ErrMovieNotFound) {
			message = FlashMovieLoadFailed
		}
		setFlash(c, "error", message)
		redirect(c, back)
		return
	}

	setFlash(c, "success", category.ToggleMessage(membership))
	redirect(c, back)
}
