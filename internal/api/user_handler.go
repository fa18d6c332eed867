package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/middleware"
)

const recentActivityLimit = 10

// UserHandler handles user-profile related API endpoints.
type UserHandler struct {
	userService     core.UserService
	activityService core.ActivityService
	logger          *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, as core.ActivityService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, activityService: as, logger: logger}
}

// GetCurrentUserProfile handles GET /api/v1/users/me.
// The identity always comes from the verified credentials; the stored profile
// and recent activity are added when available.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, h.logger, core.ErrUnauthenticated)
		return
	}

	resp := MeResponse{User: *user}

	profile, err := h.userService.GetByID(c.Request.Context(), user.UID)
	switch {
	case err == nil:
		resp.Profile = profile
	case errors.Is(err, core.ErrUserNotFound):
		h.logger.Debug("No stored profile yet", zap.String("userID", user.UID))
	default:
		respondError(c, h.logger, err)
		return
	}

	if h.activityService != nil {
		activity, err := h.activityService.Recent(c.Request.Context(), user.UID, recentActivityLimit)
		if err != nil {
			h.logger.Warn("Failed to load recent activity", zap.String("userID", user.UID), zap.Error(err))
		}
		resp.RecentActivity = activity
	}

	c.JSON(http.StatusOK, resp)
}
