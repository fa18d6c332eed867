package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie writes and clears the Firebase session cookie.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set stores value for ttl.
func (s SessionCookie) Set(c *gin.Context, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, value, int(ttl.Seconds()), "/", "", s.Secure, true)
}

// Clear expires the cookie.
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}
