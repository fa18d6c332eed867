// Package web serves the server-rendered pages of the watchlist.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/middleware"
	"github.com/example/watchlist/internal/oauth"
)

const oauthStateCookie = "wl_oauth_state"

// Deps groups the services the pages use.
type Deps struct {
	Catalog     core.CatalogService
	Feed        core.FeedService
	Memberships core.MembershipService
	Sessions    core.SessionService
	Providers   *oauth.Registry
	Cookie      middleware.SessionCookie
	Logger      *zap.Logger
}

// Handler renders the HTML pages.
type Handler struct {
	catalog     core.CatalogService
	feed        core.FeedService
	memberships core.MembershipService
	sessions    core.SessionService
	providers   *oauth.Registry
	cookie      middleware.SessionCookie
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	providers := d.Providers
	if providers == nil {
		providers = oauth.NewRegistry(oauth.Settings{})
	}
	return &Handler{
		catalog:     d.Catalog,
		feed:        d.Feed,
		memberships: d.Memberships,
		sessions:    d.Sessions,
		providers:   providers,
		cookie:      d.Cookie,
		logger:      logger,
		now:         time.Now,
	}
}

// page builds the layout data and consumes the pending flash.
func (h *Handler) page(c *gin.Context, title string) Page {
	return Page{
		Title:   title,
		Session: SessionFrom(c),
		Flash:   popFlash(c),
		Year:    h.now().Year(),
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// SetupRoutes registers the pages. authMW.Identify and SessionMiddleware are
// applied to the group so every page sees the caller's Session.
func SetupRoutes(router *gin.Engine, renderer *Renderer, authMW *middleware.AuthMiddleware, h *Handler) {
	router.HTMLRender = renderer
	router.StaticFS("/static", http.FS(StaticFS()))

	pages := router.Group("/", authMW.Identify(), SessionMiddleware())
	{
		pages.GET("/", h.Home)
		pages.GET("/movies/:id", h.Movie)
		pages.POST("/movies/:id/toggle/:category", h.Toggle)

		pages.GET("/favorites", h.List)
		pages.GET("/watched", h.List)
		pages.GET("/watchlater", h.List)
		pages.POST("/lists/:category/:movieId/remove", h.Remove)

		pages.GET("/login", h.LoginForm)
		pages.POST("/login", h.Login)
		pages.GET("/signup", h.SignUpForm)
		pages.POST("/signup", h.SignUp)
		pages.GET("/profile", h.Profile)
		pages.POST("/logout", h.Logout)

		pages.GET("/auth/:provider", h.OAuthStart)
		pages.GET("/auth/:provider/callback", h.OAuthCallback)
	}
}
