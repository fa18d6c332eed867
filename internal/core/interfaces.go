package core

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/example/watchlist/internal/identity"
	"github.com/example/watchlist/internal/models"
)

// MovieCatalog is the upstream movie database. *tmdb.Client implements it.
type MovieCatalog interface {
	Popular(ctx context.Context, page int) (*models.MoviePage, error)
	Search(ctx context.Context, query string, page int) (*models.MoviePage, error)
	Movie(ctx context.Context, id int) (*models.Movie, error)
}

// CatalogService defines read access to the catalog.
type CatalogService interface {
	// Page returns the popular listing when query is blank and search results otherwise.
	Page(ctx context.Context, query string, page int) (*models.MoviePage, error)
	Movie(ctx context.Context, id int) (*models.Movie, error)
}

// FeedService holds the accumulated browse/search results of each visitor.
type FeedService interface {
	Load(ctx context.Context, feedKey string, req models.FeedRequest) (*models.Feed, error)
	Current(ctx context.Context, feedKey string) (*models.Feed, error)
}

// MovieLoader fetches the movie a toggle is about to add.
type MovieLoader func(ctx context.Context) (*models.Movie, error)

// MembershipService defines the per-user list operations.
type MembershipService interface {
	Statuses(ctx context.Context, userID string, movieID int) (map[models.Category]models.Membership, error)
	// States returns one MembershipState per category in display order. On error
	// every state is MembershipUnknown.
	States(ctx context.Context, userID string, movieID int) ([]models.MembershipState, error)
	// Toggle calls load only when the movie is being added, so removal works
	// without the catalog.
	Toggle(ctx context.Context, userID string, category models.Category, movieID int, load MovieLoader) (models.Membership, error)
	InFlight(userID string, category models.Category, movieID int) bool
	Remove(ctx context.Context, userID string, category models.Category, movieID int) error
	List(ctx context.Context, userID string, category models.Category) ([]models.ListEntry, error)
	WatchAuthState(source AuthStateSource) (unsubscribe func())
}

// SessionService signs users in and out.
type SessionService interface {
	SignInWithPassword(ctx context.Context, visitorID string, req models.SignInRequest) (*models.Session, error)
	SignUp(ctx context.Context, visitorID string, req models.SignUpRequest) (*models.Session, error)
	SignInWithProvider(ctx context.Context, visitorID string, provider models.Provider, accessToken, requestURI string) (*models.Session, error)
	SignInWithIDToken(ctx context.Context, visitorID, idToken string) (*models.Session, error)
	// Verify resolves a session cookie to its user.
	Verify(ctx context.Context, sessionCookie string) (*models.User, error)
	// VerifyIDToken resolves a bearer ID token to its user.
	VerifyIDToken(ctx context.Context, idToken string) (*models.User, error)
	SignOut(ctx context.Context, visitorID, userID string)
}

// UserService defines the interface for user profile operations.
type UserService interface {
	// GetOrCreate returns the stored profile, creating it on first sign-in.
	// The boolean reports whether the profile was created.
	GetOrCreate(ctx context.Context, user models.User) (*models.UserProfile, bool, error)
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
}

// ActivityService records list changes.
type ActivityService interface {
	Record(ctx context.Context, entry models.ActivityLog)
	Recent(ctx context.Context, userID string, limit int) ([]*models.ActivityLog, error)
}

// EventPublisher sends domain events to the message queue.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// AuthStateSource delivers identity changes to subscribers.
type AuthStateSource interface {
	Subscribe(fn func(AuthEvent)) (unsubscribe func())
}

// AuthClient is the subset of *auth.Client the services use.
type AuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
}

// IdentityProvider checks credentials. *identity.Client implements it.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.SignInResult, error)
	SignInWithIdp(ctx context.Context, providerID, accessToken, requestURI string) (*identity.SignInResult, error)
}
