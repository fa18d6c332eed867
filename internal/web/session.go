package web

import (
	"github.com/gin-gonic/gin"

	"github.com/example/watchlist/internal/middleware"
	"github.com/example/watchlist/internal/models"
)

const contextSession = "webSession"

// Session is the per-request identity every page is rendered with.
// User is nil for anonymous visitors.
type Session struct {
	VisitorID string
	User      *models.User
}

// SignedIn reports whether an identity is present.
func (s Session) SignedIn() bool {
	return s.User != nil
}

// UID is the signed-in user's id, or "".
func (s Session) UID() string {
	if s.User == nil {
		return ""
	}
	return s.User.UID
}

// SessionMiddleware builds the Session from the visitor cookie and the user
// resolved by AuthMiddleware.Identify. It must run after both.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextSession, Session{
			VisitorID: middleware.VisitorIDFrom(c),
			User:      middleware.CurrentUser(c),
		})
		c.Next()
	}
}

// SessionFrom returns the Session set by SessionMiddleware.
func SessionFrom(c *gin.Context) Session {
	v, ok := c.Get(contextSession)
	if !ok {
		return Session{VisitorID: middleware.VisitorIDFrom(c), User: middleware.CurrentUser(c)}
	}
	s, _ := v.(Session)
	return s
}
