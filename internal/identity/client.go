// Package identity signs users in through the Firebase Identity Toolkit REST API.
// The Admin SDK can verify tokens and mint session cookies but cannot check a
// password, so password and federated sign-in go through this client.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Identity Toolkit error reasons the app reacts to.
const (
	ReasonEmailNotFound           = "EMAIL_NOT_FOUND"
	ReasonInvalidPassword         = "INVALID_PASSWORD"
	ReasonInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
	ReasonEmailExists             = "EMAIL_EXISTS"
	ReasonWeakPassword            = "WEAK_PASSWORD"
	ReasonUserDisabled            = "USER_DISABLED"
	ReasonInvalidIDPResponse      = "INVALID_IDP_RESPONSE"
)

// APIError is an error body returned by Identity Toolkit.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity toolkit: %d %s", e.StatusCode, e.Message)
}

// Reason is the machine-readable part of Message, e.g. "WEAK_PASSWORD" for
// "WEAK_PASSWORD : Password should be at least 6 characters".
func (e *APIError) Reason() string {
	reason, _, _ := strings.Cut(e.Message, " : ")
	return strings.TrimSpace(reason)
}

// IsReason reports whether err is an APIError with one of the given reasons.
func IsReason(err error, reasons ...string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	got := apiErr.Reason()
	for _, r := range reasons {
		if got == r {
			return true
		}
	}
	return false
}

// SignInResult is the subset of the sign-in responses the app uses.
type SignInResult struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	ExpiresIn    string `json:"expiresIn"`
}

// Client calls accounts:signInWithPassword and accounts:signInWithIdp.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given Firebase Web API key.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SignInWithPassword checks an email/password pair.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	payload := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var result SignInResult
	if err := c.post(ctx, "accounts:signInWithPassword", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignInWithIdp exchanges an OAuth access token from providerID (google.com,
// github.com) for a Firebase ID token, creating the account on first use.
func (c *Client) SignInWithIdp(ctx context.Context, providerID, accessToken, requestURI string) (*SignInResult, error) {
	postBody := url.Values{}
	postBody.Set("access_token", accessToken)
	postBody.Set("providerId", providerID)

	payload := map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}
	var result SignInResult
	if err := c.post(ctx, "accounts:signInWithIdp", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, method string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	fullURL := c.baseURL + "/" + method + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &envelope)
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
