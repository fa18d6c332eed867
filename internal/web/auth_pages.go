package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/internal/oauth"
)

const oauthStateTTL = 10 * time.Minute

// authFailure maps a sign-in error to the status and message of the blocking error box.
func authFailure(err error, fallback string) (int, string) {
	for _, known := range []struct {
		err    error
		status int
	}{
		{core.ErrMissingCredentials, http.StatusBadRequest},
		{core.ErrPasswordMismatch, http.StatusBadRequest},
		{core.ErrWeakPassword, http.StatusBadRequest},
		{core.ErrInvalidCredentials, http.StatusUnauthorized},
		{core.ErrUnauthenticated, http.StatusUnauthorized},
		{core.ErrUserDisabled, http.StatusForbidden},
		{core.ErrEmailAlreadyInUse, http.StatusConflict},
		{core.ErrProviderNotConfigured, http.StatusNotFound},
		{oauth.ErrUnknownProvider, http.StatusNotFound},
		{oauth.ErrInvalidState, http.StatusBadRequest},
	} {
		if errors.Is(err, known.err) {
			return known.status, capitalize(known.err.Error())
		}
	}
	return http.StatusBadGateway, fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

func (h *Handler) loginPage(c *gin.Context, email, errMsg string) loginPage {
	return loginPage{
		Page:      h.page(c, "Log in"),
		Email:     email,
		Error:     errMsg,
		Providers: h.providers.All(),
	}
}

// LoginForm renders the sign-in page.
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, pageLogin, h.loginPage(c, "", ""))
}

// Login signs in with email and password.
func (h *Handler) Login(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		status, msg := authFailure(core.ErrMissingCredentials, "")
		c.HTML(status, pageLogin, h.loginPage(c, req.Email, msg))
		return
	}

	session, err := h.sessions.SignInWithPassword(c.Request.Context(), SessionFrom(c).VisitorID, req)
	if err != nil {
		h.logger.Info("Email login failed", zap.String("email", req.Email), zap.Error(err))
		status, msg := authFailure(err, "Login failed")
		c.HTML(status, pageLogin, h.loginPage(c, req.Email, msg))
		return
	}
	h.cookie.Set(c, session.Cookie, session.ExpiresIn)
	redirect(c, "/")
}

func (h *Handler) signUpPage(c *gin.Context, email, errMsg string) signUpPage {
	return signUpPage{Page: h.page(c, "Sign up"), Email: email, Error: errMsg}
}

// SignUpForm renders the registration page.
func (h *Handler) SignUpForm(c *gin.Context) {
	c.HTML(http.StatusOK, pageSignUp, h.signUpPage(c, "", ""))
}

// SignUp creates an email/password account and signs it in.
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		status, msg := authFailure(core.ErrMissingCredentials, "")
		c.HTML(status, pageSignUp, h.signUpPage(c, req.Email, msg))
		return
	}

	session, err := h.sessions.SignUp(c.Request.Context(), SessionFrom(c).VisitorID, req)
	if err != nil {
		h.logger.Info("Sign-up failed", zap.String("email", req.Email), zap.Error(err))
		status, msg := authFailure(err, "Sign-up failed")
		c.HTML(status, pageSignUp, h.signUpPage(c, req.Email, msg))
		return
	}
	h.cookie.Set(c, session.Cookie, session.ExpiresIn)
	redirect(c, "/")
}

// Profile shows the signed-in identity.
func (h *Handler) Profile(c *gin.Context) {
	c.HTML(http.StatusOK, pageProfile, h.page(c, "Profile"))
}

// Logout ends the session and returns to the home page.
func (h *Handler) Logout(c *gin.Context) {
	session := SessionFrom(c)
	h.sessions.SignOut(c.Request.Context(), session.VisitorID, session.UID())
	h.cookie.Clear(c)
	redirect(c, "/")
}

// OAuthStart redirects to the provider's consent page.
func (h *Handler) OAuthStart(c *gin.Context) {
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		_, msg := authFailure(core.ErrProviderNotConfigured, "")
		setFlash(c, "error", msg)
		redirect(c, "/login")
		return
	}

	state := oauth.NewState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/auth/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// OAuthCallback completes the provider flow and signs the user in to Firebase.
func (h *Handler) OAuthCallback(c *gin.Context) {
	fail := func(err error) {
		h.logger.Info("OAuth sign-in failed", zap.String("provider", c.Param("provider")), zap.Error(err))
		status, msg := authFailure(err, "Sign-in failed")
		c.HTML(status, pageLogin, h.loginPage(c, "", msg))
	}

	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		fail(err)
		return
	}

	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/auth/", "", h.cookie.Secure, true)

	code, err := oauth.CodeFromCallback(c.Request.URL.Query(), expected)
	if err != nil {
		fail(err)
		return
	}

	token, err := provider.Exchange(c.Request.Context(), code)
	if err != nil {
		fail(err)
		return
	}

	session, err := h.sessions.SignInWithProvider(c.Request.Context(), SessionFrom(c).VisitorID, provider.ID, token.AccessToken, provider.RedirectURL())
	if err != nil {
		fail(err)
		return
	}
	h.cookie.Set(c, session.Cookie, session.ExpiresIn)
	redirect(c, "/")
}
