package api

import (
	"context"
	"sync"
	"time"

	"github.com/example/watchlist/internal/core"
	"github.com/example/watchlist/internal/models"
)

type stubCatalog struct {
	movies map[int]models.Movie
	err    error
}

func (s *stubCatalog) Page(context.Context, string, int) (*models.MoviePage, error) {
	return nil, s.err
}

func (s *stubCatalog) Movie(_ context.Context, id int) (*models.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.movies[id]
	if !ok {
		return nil, core.ErrMovieNotFound
	}
	return &m, nil
}

type stubFeed struct {
	feed    *models.Feed
	err     error
	lastKey string
	lastReq models.FeedRequest
}

func (s *stubFeed) Load(_ context.Context, key string, req models.FeedRequest) (*models.Feed, error) {
	s.lastKey, s.lastReq = key, req
	return s.feed, s.err
}

func (s *stubFeed) Current(context.Context, string) (*models.Feed, error) {
	return s.feed, s.err
}

// stubMemberships keeps memberships in a map keyed by uid/category/movieID.
type stubMemberships struct {
	mu        sync.Mutex
	present   map[string]bool
	entries   []models.ListEntry
	toggleErr error
	statesErr error
	calls     int
}

func newStubMemberships() *stubMemberships {
	return &stubMemberships{present: map[string]bool{}}
}

func key(uid string, c models.Category, id int) string {
	return uid + "/" + string(c) + "/" + models.MovieDocID(id)
}

func (s *stubMemberships) Statuses(_ context.Context, uid string, id int) (map[models.Category]models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := map[models.Category]models.Membership{}
	for _, c := range models.Categories {
		out[c] = models.MembershipFromExists(s.present[key(uid, c, id)])
	}
	return out, nil
}

func (s *stubMemberships) States(ctx context.Context, uid string, id int) ([]models.MembershipState, error) {
	statuses, _ := s.Statuses(ctx, uid, id)
	states := make([]models.MembershipState, 0, len(models.Categories))
	for _, c := range models.Categories {
		m := statuses[c]
		if s.statesErr != nil {
			m = models.MembershipUnknown
		}
		states = append(states, models.MembershipState{Category: c, Membership: m})
	}
	return states, s.statesErr
}

func (s *stubMemberships) Toggle(ctx context.Context, uid string, c models.Category, id int, load core.MovieLoader) (models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.toggleErr != nil {
		return models.MembershipUnknown, s.toggleErr
	}
	k := key(uid, c, id)
	if !s.present[k] {
		if _, err := load(ctx); err != nil {
			return models.MembershipUnknown, err
		}
	}
	s.present[k] = !s.present[k]
	return models.MembershipFromExists(s.present[k]), nil
}

func (s *stubMemberships) InFlight(string, models.Category, int) bool { return false }

func (s *stubMemberships) Remove(_ context.Context, uid string, c models.Category, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	delete(s.present, key(uid, c, id))
	return nil
}

func (s *stubMemberships) List(context.Context, string, models.Category) ([]models.ListEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.entries, nil
}

func (s *stubMemberships) WatchAuthState(core.AuthStateSource) func() { return func() {} }

func (s *stubMemberships) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubSessions struct {
	users      map[string]*models.User // session cookie -> user
	tokens     map[string]*models.User // id token -> user
	signInErr  error
	signUpErr  error
	signedOut  []string
	lastVisit  string
	lastSignUp models.SignUpRequest
}

func newStubSessions() *stubSessions {
	return &stubSessions{users: map[string]*models.User{}, tokens: map[string]*models.User{}}
}

func (s *stubSessions) session(user models.User) *models.Session {
	return &models.Session{Cookie: "cookie-" + user.UID, ExpiresIn: time.Hour, User: user}
}

func (s *stubSessions) SignInWithPassword(_ context.Context, visitorID string, req models.SignInRequest) (*models.Session, error) {
	s.lastVisit = visitorID
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return s.session(models.User{UID: "uid-" + req.Email, Email: req.Email}), nil
}

func (s *stubSessions) SignUp(_ context.Context, visitorID string, req models.SignUpRequest) (*models.Session, error) {
	s.lastVisit, s.lastSignUp = visitorID, req
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return s.session(models.User{UID: "uid-" + req.Email, Email: req.Email}), nil
}

func (s *stubSessions) SignInWithProvider(_ context.Context, visitorID string, provider models.Provider, accessToken, _ string) (*models.Session, error) {
	s.lastVisit = visitorID
	return s.session(models.User{UID: "uid-" + string(provider), Email: accessToken + "@example.com"}), nil
}

func (s *stubSessions) SignInWithIDToken(_ context.Context, visitorID, idToken string) (*models.Session, error) {
	s.lastVisit = visitorID
	u, ok := s.tokens[idToken]
	if !ok {
		return nil, core.ErrUnauthenticated
	}
	return s.session(*u), nil
}

func (s *stubSessions) Verify(_ context.Context, cookie string) (*models.User, error) {
	if u, ok := s.users[cookie]; ok {
		return u, nil
	}
	return nil, core.ErrUnauthenticated
}

func (s *stubSessions) VerifyIDToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := s.tokens[token]; ok {
		return u, nil
	}
	return nil, core.ErrUnauthenticated
}

func (s *stubSessions) SignOut(_ context.Context, visitorID, userID string) {
	s.signedOut = append(s.signedOut, visitorID+"|"+userID)
}

type stubUsers struct {
	profiles map[string]*models.UserProfile
}

func (s *stubUsers) GetOrCreate(_ context.Context, u models.User) (*models.UserProfile, bool, error) {
	if p, ok := s.profiles[u.UID]; ok {
		return p, false, nil
	}
	p := &models.UserProfile{ID: u.UID, Email: u.Email}
	s.profiles[u.UID] = p
	return p, true, nil
}

func (s *stubUsers) GetByID(_ context.Context, uid string) (*models.UserProfile, error) {
	if p, ok := s.profiles[uid]; ok {
		return p, nil
	}
	return nil, core.ErrUserNotFound
}

type stubActivity struct {
	logs []*models.ActivityLog
}

func (s *stubActivity) Record(context.Context, models.ActivityLog) {}

func (s *stubActivity) Recent(context.Context, string, int) ([]*models.ActivityLog, error) {
	return s.logs, nil
}
