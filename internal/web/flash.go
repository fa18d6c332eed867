package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "wl_flash"

// Flash texts shown after a redirect.
const (
	FlashOperationFailed = "Operation failed. Try again."
	FlashSignInFirst     = "Please sign in first."
	FlashMovieLoadFailed = "Failed to load movie details."
	FlashMoviesFailed    = "Failed to load movies."
)

// Flash is a one-shot notification.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, kind+"|"+message, 60, "/", "", false, true)
}

// popFlash reads and clears the pending flash, if any.
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	if kind != "success" {
		kind = "error"
	}
	return &Flash{Kind: kind, Message: message}
}
