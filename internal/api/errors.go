package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/models"
)

// errorStatus maps service errors to an HTTP status and a client-safe message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized, core.ErrUnauthenticated.Error()
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, core.ErrInvalidCredentials.Error()
	case errors.Is(err, core.ErrUserDisabled):
		return http.StatusForbidden, core.ErrUserDisabled.Error()
	case errors.Is(err, core.ErrInvalidCategory), errors.Is(err, models.ErrUnknownCategory):
		return http.StatusBadRequest, core.ErrInvalidCategory.Error()
	case errors.Is(err, core.ErrInvalidMovie):
		return http.StatusBadRequest, core.ErrInvalidMovie.Error()
	case errors.Is(err, core.ErrMissingCredentials):
		return http.StatusBadRequest, core.ErrMissingCredentials.Error()
	case errors.Is(err, core.ErrPasswordMismatch):
		return http.StatusBadRequest, core.ErrPasswordMismatch.Error()
	case errors.Is(err, core.ErrWeakPassword):
		return http.StatusBadRequest, core.ErrWeakPassword.Error()
	case errors.Is(err, core.ErrMovieNotFound):
		return http.StatusNotFound, core.ErrMovieNotFound.Error()
	case errors.Is(err, core.ErrUserNotFound):
		return http.StatusNotFound, "User profile not found"
	case errors.Is(err, core.ErrProviderNotConfigured):
		return http.StatusNotFound, core.ErrProviderNotConfigured.Error()
	case errors.Is(err, core.ErrToggleInFlight):
		return http.StatusConflict, core.ErrToggleInFlight.Error()
	case errors.Is(err, core.ErrEmailAlreadyInUse):
		return http.StatusConflict, core.ErrEmailAlreadyInUse.Error()
	case errors.Is(err, core.ErrCatalogUnavailable):
		return http.StatusBadGateway, core.ErrCatalogUnavailable.Error()
	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}

// respondError writes err as an ErrorResponse. Unexpected errors are logged.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: message})
}
