package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/example/watchlist/internal/config"
)

// CORSMiddleware configures Cross-Origin Resource Sharing for the JSON API.
// The server's own PUBLIC_URL is always allowed; CLIENT_URL may add a
// comma-separated list of extra origins for a separately hosted front end.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	origins := allowedOrigins(appConfig)

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func allowedOrigins(appConfig *config.Config) []string {
	seen := map[string]bool{}
	var origins []string
	add := func(o string) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			return
		}
		seen[o] = true
		origins = append(origins, o)
	}

	if appConfig != nil {
		add(appConfig.PublicURL)
		for _, o := range strings.Split(appConfig.ClientURL, ",") {
			add(o)
		}
	}
	if len(origins) == 0 {
		add("http://localhost:8080")
	}
	return origins
}
