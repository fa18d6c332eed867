package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/api"
	"github.com/example/watchlist/internal/config"
	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/db"
	"github.com/example/watchlist/internal/identity"
	"github.com/example/watchlist/internal/middleware"
	"github.com/example/watchlist/internal/oauth"
	"github.com/example/watchlist/internal/tmdb"
	"github.com/example/watchlist/internal/web"
	"github.com/example/watchlist/pkg/cache"
	"github.com/example/watchlist/pkg/messagequeue"
)

func newLogger(release bool) (*zap.Logger, error) {
	if release {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	// --- 1. Load .env and configuration ---
	if os.Getenv("GIN_MODE") != "release" {
		// A missing .env is fine; the environment may already be populated.
		_ = godotenv.Load()
	}
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := newLogger(appConfig.IsRelease())
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	// --- 4. Cache and message queue ---
	var appCache cache.Cache
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		appCache = redisCache
	} else {
		zapLogger.Warn("REDIS_ADDR is not configured; using the in-process cache.")
		appCache = cache.NewMemoryCache(appConfig.MemoryCacheSize)
	}

	var queue messagequeue.MessageQueue = messagequeue.NoopQueue{}
	if appConfig.AMQPURL != "" {
		rabbit, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPURL}, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		queue = rabbit
	} else {
		zapLogger.Warn("AMQP_URL is not configured; domain events are discarded.")
	}
	defer queue.Close()

	// --- 5. External clients ---
	tmdbClient, err := tmdb.NewClient(tmdb.Config{
		BaseURL:   appConfig.TMDBBaseURL,
		APIKey:    appConfig.TMDBAPIKey,
		Language:  appConfig.TMDBLanguage,
		RateLimit: appConfig.TMDBRateLimit,
	})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to create TMDb client", zap.Error(err))
	}
	identityClient := identity.NewClient(appConfig.IdentityToolkitURL, appConfig.FirebaseWebAPIKey, nil)
	providers := oauth.NewRegistry(oauth.Settings{
		PublicURL: appConfig.PublicURL,
		Google:    oauth.Credentials{ClientID: appConfig.GoogleClientID, ClientSecret: appConfig.GoogleClientSecret},
		GitHub:    oauth.Credentials{ClientID: appConfig.GitHubClientID, ClientSecret: appConfig.GitHubClientSecret},
	})
	for _, p := range providers.All() {
		zapLogger.Info("Federated sign-in enabled", zap.String("provider", p.Name))
	}

	// --- 6. Repositories and services ---
	listRepo := db.NewFirestoreListRepository(clients.Firestore)
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	activityRepo := db.NewFirestoreActivityRepository(clients.Firestore)

	events := core.NewEventPublisher(queue, appConfig.EventsQueue)
	broadcaster := core.NewAuthBroadcaster()

	catalogService := core.NewCatalogService(tmdbClient, appCache, appConfig.CatalogCacheTTL, zapLogger)
	feedService := core.NewFeedService(catalogService, appCache, appConfig.FeedTTL, zapLogger)
	activityService := core.NewActivityService(activityRepo, zapLogger)
	userService := core.NewUserService(userRepo)
	membershipService := core.NewMembershipService(listRepo, core.MembershipDeps{
		Cache:    appCache,
		CacheTTL: appConfig.ListCacheTTL,
		Activity: activityService,
		Events:   events,
		Logger:   zapLogger,
	})
	sessionService := core.NewSessionService(core.SessionDeps{
		Auth:        clients.Auth,
		Identity:    identityClient,
		Users:       userService,
		Events:      events,
		Broadcaster: broadcaster,
		SessionTTL:  appConfig.SessionTTL,
		Logger:      zapLogger,
	})
	unsubscribe := membershipService.WatchAuthState(broadcaster)
	defer unsubscribe()
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.VisitorID(appConfig.VisitorCookieName, appConfig.CookieSecure))

	authMW := middleware.NewAuthMiddleware(sessionService, appConfig.SessionCookieName, zapLogger)
	sessionCookie := middleware.SessionCookie{Name: appConfig.SessionCookieName, Secure: appConfig.CookieSecure}

	// --- 8. Routes ---
	api.SetupRoutes(router, zapLogger, authMW, middleware.CORSMiddleware(appConfig), sessionCookie, api.Services{
		Catalog:     catalogService,
		Feed:        feedService,
		Memberships: membershipService,
		Sessions:    sessionService,
		Users:       userService,
		Activity:    activityService,
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to parse page templates", zap.Error(err))
	}
	web.SetupRoutes(router, renderer, authMW, web.NewHandler(web.Deps{
		Catalog:     catalogService,
		Feed:        feedService,
		Memberships: membershipService,
		Sessions:    sessionService,
		Providers:   providers,
		Cookie:      sessionCookie,
		Logger:      zapLogger,
	}))

	// --- 9. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 10. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
