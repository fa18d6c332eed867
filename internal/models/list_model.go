package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category names one of the three per-user lists. The value doubles as the
// Firestore sub-collection name under users/{uid}.
type Category string

const (
	CategoryFavorites  Category = "favorites"
	CategoryWatched    Category = "watched"
	CategoryWatchLater Category = "watchLater"
)

// Categories is the closed set of lists, in display order.
var Categories = []Category{CategoryFavorites, CategoryWatched, CategoryWatchLater}

// ErrUnknownCategory is returned by ParseCategory for names outside the closed set.
var ErrUnknownCategory = errors.New("unknown list category")

// ParseCategory accepts a collection name ("watchLater") or a route slug ("watchlater").
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if s == string(c) || strings.EqualFold(s, c.Slug()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Slug is the URL path segment for the list page.
func (c Category) Slug() string {
	return strings.ToLower(string(c))
}

func (c Category) DisplayName() string {
	switch c {
	case CategoryFavorites:
		return "Favorites"
	case CategoryWatched:
		return "Watched"
	case CategoryWatchLater:
		return "Watch Later"
	}
	return string(c)
}

// Heading is the title shown on the list page.
func (c Category) Heading() string {
	switch c {
	case CategoryFavorites:
		return "⭐ Favorites"
	case CategoryWatched:
		return "✅ Watched"
	case CategoryWatchLater:
		return "🕓 Watch Later"
	}
	return c.DisplayName()
}

// ToggleMessage is the notification shown once a change to this list is confirmed.
func (c Category) ToggleMessage(m Membership) string {
	if m == MembershipPresent {
		return "Added to " + c.DisplayName()
	}
	return "Removed from " + c.DisplayName()
}

// ListEntry is the document stored at users/{uid}/{category}/{movieId}.
// Its existence is the membership signal; it is never updated in place.
type ListEntry struct {
	ID          int     `json:"id" firestore:"id"`
	Title       string  `json:"title" firestore:"title"`
	PosterPath  string  `json:"poster_path" firestore:"poster_path"`
	VoteAverage float64 `json:"vote_average" firestore:"vote_average"`
	ReleaseDate string  `json:"release_date" firestore:"release_date"`
}

// NewListEntry projects the fields a list document keeps from a catalog movie.
func NewListEntry(m Movie) ListEntry {
	return ListEntry{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		VoteAverage: m.VoteAverage,
		ReleaseDate: m.ReleaseDate,
	}
}

// DocID is the Firestore document ID: the movie ID in decimal.
func (e ListEntry) DocID() string {
	return MovieDocID(e.ID)
}

// MovieDocID formats a movie ID the way list documents are keyed.
func MovieDocID(movieID int) string {
	return strconv.Itoa(movieID)
}

// Membership is what the app knows about one (user, category, movie) triple.
// Unknown means no confirmed answer from the backend yet.
type Membership int

const (
	MembershipUnknown Membership = iota
	MembershipAbsent
	MembershipPresent
)

func (m Membership) String() string {
	switch m {
	case MembershipAbsent:
		return "absent"
	case MembershipPresent:
		return "present"
	default:
		return "unknown"
	}
}

// MembershipFromExists converts a confirmed existence check.
func MembershipFromExists(exists bool) Membership {
	if exists {
		return MembershipPresent
	}
	return MembershipAbsent
}

func (m Membership) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Membership) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "present":
		*m = MembershipPresent
	case "absent":
		*m = MembershipAbsent
	default:
		*m = MembershipUnknown
	}
	return nil
}

// MembershipState is the per-category view model on the movie page. Busy is
// tracked separately so an in-flight toggle never changes Membership itself.
type MembershipState struct {
	Category   Category   `json:"category"`
	Membership Membership `json:"membership"`
	Busy       bool       `json:"busy"`
}
