package api

import (
	"time"

	"github.com/example/watchlist/internal/models"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// FeedResponse is the body of GET /movies.
type FeedResponse struct {
	Query      string         `json:"query"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	HasMore    bool           `json:"hasMore"`
	Movies     []models.Movie `json:"movies"`
}

func newFeedResponse(feed *models.Feed) FeedResponse {
	movies := feed.Movies
	if movies == nil {
		movies = []models.Movie{}
	}
	return FeedResponse{
		Query:      feed.Query,
		Page:       feed.Page,
		TotalPages: feed.TotalPages,
		HasMore:    feed.HasMore(),
		Movies:     movies,
	}
}

// MovieDetailResponse is the body of GET /movies/:id. Memberships is only
// present for signed-in callers.
type MovieDetailResponse struct {
	Movie       models.Movie             `json:"movie"`
	PosterURL   string                   `json:"posterUrl,omitempty"`
	Memberships []models.MembershipState `json:"memberships,omitempty"`
}

// MembershipsResponse is the body of GET /movies/:id/memberships.
type MembershipsResponse struct {
	MovieID     int                      `json:"movieId"`
	Memberships []models.MembershipState `json:"memberships"`
}

// ToggleResponse reports the confirmed membership after a toggle.
type ToggleResponse struct {
	MovieID    int               `json:"movieId"`
	Category   models.Category   `json:"category"`
	Membership models.Membership `json:"membership"`
	Message    string            `json:"message"`
}

// ListResponse is the body of GET /lists/:category.
type ListResponse struct {
	Category models.Category    `json:"category"`
	Title    string             `json:"title"`
	Entries  []models.ListEntry `json:"entries"`
}

// SessionResponse is returned after sign-in. The session itself travels in a cookie.
type SessionResponse struct {
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// MeResponse is the body of GET /users/me.
type MeResponse struct {
	User           models.User           `json:"user"`
	Profile        *models.UserProfile   `json:"profile,omitempty"`
	RecentActivity []*models.ActivityLog `json:"recentActivity,omitempty"`
}
