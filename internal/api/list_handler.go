package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/middleware"
	"github.com/example/watchlist/internal/models"
)

// ListHandler handles the per-user list endpoints.
type ListHandler struct {
	memberships core.MembershipService
	logger      *zap.Logger
}

// NewListHandler creates a new ListHandler.
func NewListHandler(memberships core.MembershipService, logger *zap.Logger) *ListHandler {
	return &ListHandler{memberships: memberships, logger: logger}
}

// GetList handles GET /api/v1/lists/:category.
func (h *ListHandler) GetList(c *gin.Context) {
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

	entries, err := h.memberships.List(c.Request.Context(), user.UID, category)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Category: category, Title: category.Heading(), Entries: entries})
}

// RemoveFromList handles DELETE /api/v1/lists/:category/:movieId.
func (h *ListHandler) RemoveFromList(c *gin.Context) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	movieID, err := movieIDParam(c, "movieId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, h.logger, core.ErrUnauthenticated)
		return
	}

	if err := h.memberships.Remove(c.Request.Context(), user.UID, category, movieID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: category.ToggleMessage(models.MembershipAbsent)})
}
