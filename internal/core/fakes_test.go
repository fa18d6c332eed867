package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/example/watchlist/internal/db"
	"github.com/example/watchlist/internal/identity"
	"github.com/example/watchlist/internal/models"
)

// fakeCatalog serves pages from memory and counts calls.
type fakeCatalog struct {
	mu       sync.Mutex
	popular  map[int]models.MoviePage
	search   map[string]map[int]models.MoviePage
	movies   map[int]models.Movie
	err      error
	calls    int
	lastCall string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		popular: map[int]models.MoviePage{},
		search:  map[string]map[int]models.MoviePage{},
		movies:  map[int]models.Movie{},
	}
}

func (f *fakeCatalog) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCall = call
	return f.err
}

func (f *fakeCatalog) Popular(_ context.Context, page int) (*models.MoviePage, error) {
	if err := f.record(fmt.Sprintf("popular:%d", page)); err != nil {
		return nil, err
	}
	p := f.popular[page]
	return &p, nil
}

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*models.MoviePage, error) {
	if err := f.record(fmt.Sprintf("search:%s:%d", query, page)); err != nil {
		return nil, err
	}
	p := f.search[query][page]
	return &p, nil
}

func (f *fakeCatalog) Movie(_ context.Context, id int) (*models.Movie, error) {
	if err := f.record(fmt.Sprintf("movie:%d", id)); err != nil {
		return nil, err
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, errors.New("tmdb: unexpected status 500")
	}
	return &m, nil
}

func (f *fakeCatalog) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeListRepo is an in-memory ListRepository.
type fakeListRepo struct {
	mu          sync.Mutex
	docs        map[string]models.ListEntry
	existsCalls int
	getAllCalls int
	err         error
	// toggleGate, when set, blocks Toggle until it is closed.
	toggleGate    chan struct{}
	toggleStarted chan struct{}
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{docs: map[string]models.ListEntry{}}
}

func docPath(uid string, c models.Category, movieID int) string {
	return fmt.Sprintf("users/%s/%s/%d", uid, c, movieID)
}

func (f *fakeListRepo) Exists(_ context.Context, uid string, c models.Category, movieID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.docs[docPath(uid, c, movieID)]
	return ok, nil
}

func (f *fakeListRepo) seed(uid string, c models.Category, e models.ListEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[docPath(uid, c, e.ID)] = e
}

func (f *fakeListRepo) Delete(_ context.Context, uid string, c models.Category, movieID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.docs, docPath(uid, c, movieID))
	return nil
}

func (f *fakeListRepo) GetAll(_ context.Context, uid string, c models.Category) ([]models.ListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getAllCalls++
	if f.err != nil {
		return nil, f.err
	}
	prefix := fmt.Sprintf("users/%s/%s/", uid, c)
	var keys []string
	for k := range f.docs {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	entries := make([]models.ListEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, f.docs[k])
	}
	return entries, nil
}

func (f *fakeListRepo) Toggle(ctx context.Context, uid string, c models.Category, movieID int, load db.EntryLoader) (bool, error) {
	if f.toggleGate != nil {
		if f.toggleStarted != nil {
			close(f.toggleStarted)
		}
		<-f.toggleGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	path := docPath(uid, c, movieID)
	if _, ok := f.docs[path]; ok {
		delete(f.docs, path)
		return false, nil
	}
	e, err := load(ctx)
	if err != nil {
		return false, err
	}
	f.docs[path] = e
	return true, nil
}

func (f *fakeListRepo) entries(uid string, c models.Category) []models.ListEntry {
	all, _ := f.GetAll(context.Background(), uid, c)
	return all
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
	getErr   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{profiles: map[string]models.UserProfile{}}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("user with ID '%s' not found: %w", id, db.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeUserRepo) Create(_ context.Context, p *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[p.ID]; ok {
		return db.ErrAlreadyExists
	}
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, p *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = *p
	return nil
}

// fakeActivityRepo records created entries.
type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []models.ActivityLog
	err     error
}

func (f *fakeActivityRepo) Create(_ context.Context, e models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeActivityRepo) ListByUserID(_ context.Context, uid string, limit int) ([]*models.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ActivityLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].UserID == uid {
			e := f.entries[i]
			out = append(out, &e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakePublisher collects published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeAuthClient stands in for *auth.Client.
type fakeAuthClient struct {
	users       map[string]*auth.UserRecord
	idTokens    map[string]string // token -> uid
	cookies     map[string]string // cookie -> uid
	createErr   error
	lastTTL     time.Duration
	createdUser *auth.UserToCreate
	// signUpEmail is the email CreateUser registers, since UserToCreate is opaque.
	signUpEmail string
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{
		users:    map[string]*auth.UserRecord{},
		idTokens: map[string]string{},
		cookies:  map[string]string{},
	}
}

func (f *fakeAuthClient) addUser(uid, email, name string) {
	f.users[uid] = &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid, Email: email, DisplayName: name}}
	f.idTokens["id-"+uid] = uid
}

func (f *fakeAuthClient) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f.idTokens[idToken]
	if !ok {
		return nil, errors.New("invalid id token")
	}
	return &auth.Token{UID: uid, Claims: map[string]interface{}{"email": f.users[uid].Email}}, nil
}

func (f *fakeAuthClient) SessionCookie(_ context.Context, idToken string, expiresIn time.Duration) (string, error) {
	uid, ok := f.idTokens[idToken]
	if !ok {
		return "", errors.New("invalid id token")
	}
	f.lastTTL = expiresIn
	cookie := "cookie-" + uid
	f.cookies[cookie] = uid
	return cookie, nil
}

func (f *fakeAuthClient) VerifySessionCookieAndCheckRevoked(_ context.Context, cookie string) (*auth.Token, error) {
	uid, ok := f.cookies[cookie]
	if !ok {
		return nil, errors.New("session cookie revoked")
	}
	rec := f.users[uid]
	return &auth.Token{UID: uid, Claims: map[string]interface{}{"email": rec.Email, "name": rec.DisplayName}}, nil
}

func (f *fakeAuthClient) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	rec, ok := f.users[uid]
	if !ok {
		return nil, errors.New("user not found")
	}
	return rec, nil
}

func (f *fakeAuthClient) CreateUser(_ context.Context, u *auth.UserToCreate) (*auth.UserRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdUser = u
	uid := fmt.Sprintf("uid-%d", len(f.users)+1)
	f.addUser(uid, f.signUpEmail, "")
	return f.users[uid], nil
}

// fakeIdentity stands in for the Identity Toolkit client.
type fakeIdentity struct {
	auth      *fakeAuthClient
	passwords map[string]string // email -> password
	err       error
	lastIdp   []string
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*identity.SignInResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.passwords[email] != password {
		return nil, &identity.APIError{StatusCode: 400, Message: identity.ReasonInvalidLoginCredentials}
	}
	for uid, rec := range f.auth.users {
		if rec.Email == email {
			return &identity.SignInResult{IDToken: "id-" + uid, LocalID: uid, Email: email}, nil
		}
	}
	return nil, &identity.APIError{StatusCode: 400, Message: identity.ReasonEmailNotFound}
}

func (f *fakeIdentity) SignInWithIdp(_ context.Context, providerID, accessToken, requestURI string) (*identity.SignInResult, error) {
	f.lastIdp = []string{providerID, accessToken, requestURI}
	if f.err != nil {
		return nil, f.err
	}
	uid := "fed-" + accessToken
	if _, ok := f.auth.users[uid]; !ok {
		f.auth.addUser(uid, accessToken+"@example.com", "Fed User")
	}
	return &identity.SignInResult{IDToken: "id-" + uid, LocalID: uid}, nil
}
