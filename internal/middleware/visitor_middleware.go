package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextVisitorID is the context key holding the visitor id.
const ContextVisitorID = "visitorID"

const visitorCookieMaxAge = 365 * 24 * 60 * 60

// VisitorID gives every browser a stable anonymous id stored in a cookie.
// Feeds and auth events are keyed by it.
func VisitorID(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, visitorCookieMaxAge, "/", "", secure, true)
		}
		c.Set(ContextVisitorID, id)
		c.Next()
	}
}

// VisitorIDFrom returns the visitor id set by VisitorID.
func VisitorIDFrom(c *gin.Context) string {
	return c.GetString(ContextVisitorID)
}
