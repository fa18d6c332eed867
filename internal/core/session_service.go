package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/example/watchlist/internal/identity"
	"github.com/example/watchlist/internal/models"
)

const minPasswordLength = 6

// sessionService implements the SessionService interface.
type sessionService struct {
	authClient AuthClient
	idp        IdentityProvider
	users      UserService
	events     EventPublisher
	broadcast  *AuthBroadcaster
	ttl        time.Duration
	logger     *zap.Logger
}

// SessionDeps groups the collaborators of the session service.
type SessionDeps struct {
	Auth        AuthClient
	Identity    IdentityProvider
	Users       UserService
	Events      EventPublisher
	Broadcaster *AuthBroadcaster
	SessionTTL  time.Duration
	Logger      *zap.Logger
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(deps SessionDeps) SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	broadcast := deps.Broadcaster
	if broadcast == nil {
		broadcast = NewAuthBroadcaster()
	}
	return &sessionService{
		authClient: deps.Auth,
		idp:        deps.Identity,
		users:      deps.Users,
		events:     deps.Events,
		broadcast:  broadcast,
		ttl:        deps.SessionTTL,
		logger:     logger,
	}
}

// SignInWithPassword checks the credentials and opens a session.
func (s *sessionService) SignInWithPassword(ctx context.Context, visitorID string, req models.SignInRequest) (*models.Session, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	result, err := s.idp.SignInWithPassword(ctx, email, req.Password)
	if err != nil {
		return nil, mapIdentityError(err)
	}
	return s.establish(ctx, visitorID, result.IDToken, result.LocalID)
}

// SignUp creates an email/password account and signs it in.
func (s *sessionService) SignUp(ctx context.Context, visitorID string, req models.SignUpRequest) (*models.Session, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	record, err := s.authClient.CreateUser(ctx, (&auth.UserToCreate{}).Email(email).Password(req.Password))
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("User signed up", zap.String("userID", record.UID))

	result, err := s.idp.SignInWithPassword(ctx, email, req.Password)
	if err != nil {
		return nil, mapIdentityError(err)
	}
	session, err := s.establish(ctx, visitorID, result.IDToken, result.LocalID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		err := s.events.Publish(ctx, Event{
			Type:        EventUserSignedUp,
			UID:         session.User.UID,
			Email:       session.User.Email,
			DisplayName: session.User.DisplayName,
		})
		if err != nil {
			s.logger.Warn("Failed to publish sign-up event", zap.String("userID", session.User.UID), zap.Error(err))
		}
	}
	return session, nil
}

// SignInWithProvider signs in with an OAuth access token issued by a federated provider.
func (s *sessionService) SignInWithProvider(ctx context.Context, visitorID string, provider models.Provider, accessToken, requestURI string) (*models.Session, error) {
	if provider != models.ProviderGoogle && provider != models.ProviderGitHub {
		return nil, ErrProviderNotConfigured
	}
	if accessToken == "" {
		return nil, ErrMissingCredentials
	}

	result, err := s.idp.SignInWithIdp(ctx, string(provider), accessToken, requestURI)
	if err != nil {
		return nil, mapIdentityError(err)
	}
	return s.establish(ctx, visitorID, result.IDToken, result.LocalID)
}

// SignInWithIDToken opens a session for an ID token minted by the Firebase client SDK.
func (s *sessionService) SignInWithIDToken(ctx context.Context, visitorID, idToken string) (*models.Session, error) {
	if idToken == "" {
		return nil, ErrMissingCredentials
	}
	return s.establish(ctx, visitorID, idToken, "")
}

// establish exchanges idToken for a session cookie, loads the user record,
// upserts the profile and announces the new identity.
func (s *sessionService) establish(ctx context.Context, visitorID, idToken, uid string) (*models.Session, error) {
	if uid == "" {
		token, err := s.authClient.VerifyIDToken(ctx, idToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		uid = token.UID
	}

	cookie, err := s.authClient.SessionCookie(ctx, idToken, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cookie: %w", err)
	}

	record, err := s.authClient.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", uid, err)
	}
	if record.Disabled {
		return nil, ErrUserDisabled
	}
	user := userFromRecord(record)

	if s.users != nil {
		if _, _, err := s.users.GetOrCreate(ctx, user); err != nil {
			s.logger.Warn("Failed to sync user profile", zap.String("userID", uid), zap.Error(err))
		}
	}

	s.broadcast.Publish(AuthEvent{VisitorID: visitorID, UID: uid, User: &user})
	return &models.Session{Cookie: cookie, ExpiresIn: s.ttl, User: user}, nil
}

// Verify resolves a session cookie, rejecting revoked sessions.
func (s *sessionService) Verify(ctx context.Context, sessionCookie string) (*models.User, error) {
	if sessionCookie == "" {
		return nil, ErrUnauthenticated
	}
	token, err := s.authClient.VerifySessionCookieAndCheckRevoked(ctx, sessionCookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	user := userFromToken(token)
	return &user, nil
}

// VerifyIDToken resolves a bearer ID token.
func (s *sessionService) VerifyIDToken(ctx context.Context, idToken string) (*models.User, error) {
	if idToken == "" {
		return nil, ErrUnauthenticated
	}
	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	user := userFromToken(token)
	return &user, nil
}

// SignOut announces that the visitor no longer has an identity.
func (s *sessionService) SignOut(_ context.Context, visitorID, userID string) {
	s.broadcast.Publish(AuthEvent{VisitorID: visitorID, UID: userID})
}

func userFromRecord(record *auth.UserRecord) models.User {
	if record == nil || record.UserInfo == nil {
		return models.User{}
	}
	return models.User{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		PhotoURL:    record.PhotoURL,
	}
}

func userFromToken(token *auth.Token) models.User {
	user := models.User{UID: token.UID}
	if v, ok := token.Claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		user.DisplayName = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		user.PhotoURL = v
	}
	return user
}

func mapIdentityError(err error) error {
	switch {
	case identity.IsReason(err,
		identity.ReasonEmailNotFound,
		identity.ReasonInvalidPassword,
		identity.ReasonInvalidLoginCredentials,
		identity.ReasonInvalidIDPResponse):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case identity.IsReason(err, identity.ReasonEmailExists):
		return ErrEmailAlreadyInUse
	case identity.IsReason(err, identity.ReasonWeakPassword):
		return ErrWeakPassword
	case identity.IsReason(err, identity.ReasonUserDisabled):
		return ErrUserDisabled
	}
	var apiErr *identity.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("identity provider rejected sign-in: %w", err)
	}
	return fmt.Errorf("sign-in failed: %w", err)
}
