// Package oauth runs the authorization code flow for the federated sign-in
// providers. The access token it obtains is handed to Firebase, which owns
// the resulting account.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/example/watchlist/internal/models"
)

var (
	ErrUnknownProvider = errors.New("unknown sign-in provider")
	ErrInvalidState    = errors.New("invalid state parameter")
)

// Provider is one configured OAuth2 identity provider.
type Provider struct {
	Slug   string          // path segment: "google" or "github"
	Name   string          // button label
	ID     models.Provider // Firebase providerId
	config *oauth2.Config
}

// RedirectURL is the callback URL registered with the provider.
func (p *Provider) RedirectURL() string {
	return p.config.RedirectURL
}

// AuthCodeURL returns the provider consent URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for a token.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// Credentials are the client id/secret pair issued by a provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Settings configures the registry. Providers with empty credentials are skipped.
type Settings struct {
	PublicURL string
	Google    Credentials
	GitHub    Credentials
}

// Registry holds the configured providers keyed by slug.
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry builds providers whose credentials are present.
func NewRegistry(s Settings) *Registry {
	base := strings.TrimRight(s.PublicURL, "/")
	r := &Registry{providers: make(map[string]*Provider)}

	if s.Google.ClientID != "" && s.Google.ClientSecret != "" {
		r.providers["google"] = &Provider{
			Slug: "google",
			Name: "Google",
			ID:   models.ProviderGoogle,
			config: &oauth2.Config{
				ClientID:     s.Google.ClientID,
				ClientSecret: s.Google.ClientSecret,
				Endpoint:     google.Endpoint,
				RedirectURL:  base + "/auth/google/callback",
				Scopes:       []string{"openid", "email", "profile"},
			},
		}
	}
	if s.GitHub.ClientID != "" && s.GitHub.ClientSecret != "" {
		r.providers["github"] = &Provider{
			Slug: "github",
			Name: "GitHub",
			ID:   models.ProviderGitHub,
			config: &oauth2.Config{
				ClientID:     s.GitHub.ClientID,
				ClientSecret: s.GitHub.ClientSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  base + "/auth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
			},
		}
	}
	return r
}

// Get returns the provider registered under slug.
func (r *Registry) Get(slug string) (*Provider, error) {
	p, ok := r.providers[strings.ToLower(slug)]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// All returns the configured providers ordered by slug.
func (r *Registry) All() []*Provider {
	out := make([]*Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// NewState returns a random state token for CSRF protection.
func NewState() string {
	return uuid.NewString()
}

// CodeFromCallback validates the callback query against the expected state
// and returns the authorization code.
func CodeFromCallback(query url.Values, expectedState string) (string, error) {
	if expectedState == "" || query.Get("state") != expectedState {
		return "", ErrInvalidState
	}

	code := query.Get("code")
	if code == "" {
		return "", fmt.Errorf("authorization failed: %s - %s", query.Get("error"), query.Get("error_description"))
	}
	return code, nil
}
