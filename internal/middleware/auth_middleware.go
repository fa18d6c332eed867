package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/models"
)

// Context keys set by the auth middleware.
const (
	ContextUserID          = "userID"
	ContextUserEmail       = "userEmail"
	ContextUserDisplayName = "userDisplayName"
	ContextUserPhotoURL    = "userPhotoURL"
	ContextCurrentUser     = "currentUser"
)

// ErrorResponse is a local definition for sending standardized error messages.
// It mirrors the one in internal/api to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier resolves credentials to a user. core.SessionService implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, sessionCookie string) (*models.User, error)
	VerifyIDToken(ctx context.Context, idToken string) (*models.User, error)
}

// AuthMiddleware authenticates requests with a Firebase ID token in the
// Authorization header or a Firebase session cookie.
type AuthMiddleware struct {
	verifier   TokenVerifier
	cookieName string
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier, cookieName string, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a TokenVerifier")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, cookieName: cookieName, logger: logger}
}

// resolve returns the caller's identity, or nil when the request is anonymous.
// A malformed Authorization header is reported as an error message.
func (m *AuthMiddleware) resolve(c *gin.Context) (*models.User, string) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return nil, "Authorization header format must be 'Bearer {token}'"
		}
		user, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Debug("Rejected ID token", zap.Error(err))
			return nil, "Invalid or expired authentication token"
		}
		return user, ""
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie == "" {
		return nil, ""
	}
	user, err := m.verifier.Verify(c.Request.Context(), cookie)
	if err != nil {
		m.logger.Debug("Rejected session cookie", zap.Error(err))
		return nil, "Invalid or expired session"
	}
	return user, ""
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(ContextCurrentUser, user)
	c.Set(ContextUserID, user.UID)
	c.Set(ContextUserEmail, user.Email)
	c.Set(ContextUserDisplayName, user.DisplayName)
	c.Set(ContextUserPhotoURL, user.PhotoURL)
}

// Identify sets the user in the context when valid credentials are present
// and lets anonymous requests through.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := m.resolve(c); user != nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// VerifyToken rejects requests without valid credentials with 401.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		user, message := m.resolve(c)
		if user == nil {
			if message == "" {
				message = "Authentication required"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextCurrentUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
