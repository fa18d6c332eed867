package web

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
	feed *models.Feed
	err  error
	reqs []models.FeedRequest
}

func (s *stubFeed) Load(_ context.Context, _ string, req models.FeedRequest) (*models.Feed, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.feed, nil
}

func (s *stubFeed) Current(context.Context, string) (*models.Feed, error) {
	return &models.Feed{}, nil
}

// countingMemberships records every call so tests can assert on backend traffic.
type countingMemberships struct {
	mu        sync.Mutex
	calls     []string
	present   map[models.Category]bool
	busy      map[models.Category]bool
	entries   []models.ListEntry
	statesErr error
	toggleErr error
}

func newCountingMemberships() *countingMemberships {
	return &countingMemberships{present: map[models.Category]bool{}, busy: map[models.Category]bool{}}
}

func (m *countingMemberships) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *countingMemberships) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *countingMemberships) Statuses(context.Context, string, int) (map[models.Category]models.Membership, error) {
	m.record("statuses")
	out := map[models.Category]models.Membership{}
	for _, c := range models.Categories {
		out[c] = models.MembershipFromExists(m.present[c])
	}
	return out, m.statesErr
}

func (m *countingMemberships) States(_ context.Context, _ string, _ int) ([]models.MembershipState, error) {
	m.record("states")
	states := make([]models.MembershipState, 0, len(models.Categories))
	for _, c := range models.Categories {
		st := models.MembershipState{Category: c, Membership: models.MembershipFromExists(m.present[c]), Busy: m.busy[c]}
		if m.statesErr != nil {
			st.Membership = models.MembershipUnknown
		}
		states = append(states, st)
	}
	return states, m.statesErr
}

func (m *countingMemberships) Toggle(ctx context.Context, _ string, c models.Category, _ int, load core.MovieLoader) (models.Membership, error) {
	m.record("toggle:" + string(c))
	if m.toggleErr != nil {
		return models.MembershipUnknown, m.toggleErr
	}
	if !m.present[c] {
		if _, err := load(ctx); err != nil {
			return models.MembershipUnknown, err
		}
	}
	m.present[c] = !m.present[c]
	return models.MembershipFromExists(m.present[c]), nil
}

func (m *countingMemberships) InFlight(_ string, c models.Category, _ int) bool {
	return m.busy[c]
}

func (m *countingMemberships) Remove(_ context.Context, _ string, c models.Category, id int) error {
	m.record("remove:" + string(c) + ":" + models.MovieDocID(id))
	return nil
}

func (m *countingMemberships) List(_ context.Context, _ string, c models.Category) ([]models.ListEntry, error) {
	m.record("list:" + string(c))
	return m.entries, nil
}

func (m *countingMemberships) WatchAuthState(core.AuthStateSource) func() { return func() {} }

type stubSessions struct {
	cookies   map[string]*models.User
	signInErr error
	signedOut []string
	provider  models.Provider
}

func (s *stubSessions) session(u models.User) *models.Session {
	return &models.Session{Cookie: "cookie-" + u.UID, ExpiresIn: time.Hour, User: u}
}

func (s *stubSessions) SignInWithPassword(_ context.Context, _ string, req models.SignInRequest) (*models.Session, error) {
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return s.session(models.User{UID: "uid-1", Email: req.Email}), nil
}

func (s *stubSessions) SignUp(_ context.Context, _ string, req models.SignUpRequest) (*models.Session, error) {
	if req.Password != req.ConfirmPassword {
		return nil, core.ErrPasswordMismatch
	}
	return s.session(models.User{UID: "uid-new", Email: req.Email}), nil
}

func (s *stubSessions) SignInWithProvider(_ context.Context, _ string, p models.Provider, _, _ string) (*models.Session, error) {
	s.provider = p
	return s.session(models.User{UID: "uid-oauth"}), nil
}

func (s *stubSessions) SignInWithIDToken(context.Context, string, string) (*models.Session, error) {
	return nil, core.ErrUnauthenticated
}

func (s *stubSessions) Verify(_ context.Context, cookie string) (*models.User, error) {
	if u, ok := s.cookies[cookie]; ok {
		return u, nil
	}
	return nil, core.ErrUnauthenticated
}

func (s *stubSessions) VerifyIDToken(context.Context, string) (*models.User, error) {
	return nil, core.ErrUnauthenticated
}

func (s *stubSessions) SignOut(_ context.Context, visitorID, uid string) {
	s.signedOut = append(s.signedOut, visitorID+"|"+uid)
}
