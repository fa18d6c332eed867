// Package tmdb is a small client for The Movie Database REST API (v3).
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/watchlist/internal/models"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"
	ImageBaseURL    = "https://image.tmdb.org/t/p/"
)

// ErrNotFound is returned when TMDb has no movie with the requested id.
var ErrNotFound = errors.New("movie not found")

// APIError is a non-2xx response from TMDb.
type APIError struct {
	StatusCode    int    `json:"-"`              // HTTP status
	Code          int    `json:"status_code"`    // TMDb error code
	StatusMessage string `json:"status_message"`
}

func (e *APIError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("tmdb: %d %s", e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Config contains options for creating a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Language   string
	RateLimit  float64 // requests per second, 0 disables limiting
	HTTPClient *http.Client
}

// Client calls the TMDb endpoints used by the catalog.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a TMDb client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("tmdb: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)+1)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		httpClient: cfg.HTTPClient,
		limiter:    limiter,
	}, nil
}

// Popular returns one page of the popular movies listing.
func (c *Client) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var result models.MoviePage
	if err := c.get(ctx, "/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search returns one page of movies matching query.
func (c *Client) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var result models.MoviePage
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Movie returns the details of a single movie.
func (c *Client) Movie(ctx context.Context, id int) (*models.Movie, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	var movie models.Movie
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), url.Values{}, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

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
		apiErr := &APIError{}
		_ = json.Unmarshal(body, apiErr)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PosterURL builds an image URL for a poster path at the given size (w300, w500, original).
// An empty path yields an empty string.
func PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return ImageBaseURL + size + path
}
