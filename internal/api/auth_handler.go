package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/middleware"
	"github.com/example/watchlist/internal/models"
)

// AuthHandler handles sign-in, sign-up and sign-out.
type AuthHandler struct {
	sessions core.SessionService
	cookie   middleware.SessionCookie
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions core.SessionService, cookie middleware.SessionCookie, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie, logger: logger}
}

func (h *AuthHandler) startSession(c *gin.Context, session *models.Session) {
	h.cookie.Set(c, session.Cookie, session.ExpiresIn)
	c.JSON(http.StatusOK, SessionResponse{
		User:      session.User,
		ExpiresAt: time.Now().Add(session.ExpiresIn).UTC(),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrMissingCredentials.Error(), Details: err.Error()})
		return
	}

	session, err := h.sessions.SignInWithPassword(c.Request.Context(), middleware.VisitorIDFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.startSession(c, session)
}

// SignUp handles POST /api/v1/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrMissingCredentials.Error(), Details: err.Error()})
		return
	}

	session, err := h.sessions.SignUp(c.Request.Context(), middleware.VisitorIDFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.startSession(c, session)
}

// CreateSession handles POST /api/v1/auth/session for clients that signed in
// with the Firebase client SDK and hold an ID token.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req models.IDTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "idToken is required", Details: err.Error()})
		return
	}

	session, err := h.sessions.SignInWithIDToken(c.Request.Context(), middleware.VisitorIDFrom(c), req.IDToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.startSession(c, session)
}

// Logout handles POST /api/v1/auth/logout. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := ""
	if user := middleware.CurrentUser(c); user != nil {
		uid = user.UID
	}
	h.sessions.SignOut(c.Request.Context(), middleware.VisitorIDFrom(c), uid)
	h.cookie.Clear(c)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}
