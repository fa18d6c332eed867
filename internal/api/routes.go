package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/middleware"
)

// Services groups what the JSON API needs.
type Services struct {
	Catalog     core.CatalogService
	Feed        core.FeedService
	Memberships core.MembershipService
	Sessions    core.SessionService
	Users       core.UserService
	Activity    core.ActivityService
}

// SetupRoutes configures the JSON API under /api/v1 and the /health endpoint.
// Global middleware (logging, recovery, visitor id) is expected to be applied
// to router before this is called.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	cors gin.HandlerFunc,
	cookie middleware.SessionCookie,
	svc Services,
) {
	movieHandler := NewMovieHandler(svc.Catalog, svc.Feed, svc.Memberships, logger)
	listHandler := NewListHandler(svc.Memberships, logger)
	authHandler := NewAuthHandler(svc.Sessions, cookie, logger)
	userHandler := NewUserHandler(svc.Users, svc.Activity, logger)

	apiV1 := router.Group("/api/v1")
	if cors != nil {
		apiV1.Use(cors)
	}
	apiV1.Use(authMW.Identify())
	{
		movies := apiV1.Group("/movies")
		{
			movies.GET("", movieHandler.ListMovies)
			movies.GET("/:id", movieHandler.GetMovie)
			movies.GET("/:id/memberships", authMW.VerifyToken(), movieHandler.GetMemberships)
			movies.POST("/:id/lists/:category/toggle", authMW.VerifyToken(), movieHandler.ToggleMembership)
		}

		lists := apiV1.Group("/lists", authMW.VerifyToken())
		{
			lists.GET("/:category", listHandler.GetList)
			lists.DELETE("/:category/:movieId", listHandler.RemoveFromList)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/session", authHandler.CreateSession)
			auth.POST("/logout", authHandler.Logout)
		}

		apiV1.GET("/users/me", authMW.VerifyToken(), userHandler.GetCurrentUserProfile)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Watchlist backend is healthy."})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
