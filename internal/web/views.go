package web

import (
	"net/url"
	"strings"

	"github.com/example/watchlist/internal/models"
	"github.com/example/watchlist/internal/oauth"
)

// Page carries what the layout needs.
type Page struct {
	Title   string
	Session Session
	Flash   *Flash
	Year    int
}

type homePage struct {
	Page
	Feed *models.Feed
}

// MoreURL continues the current feed.
func (p homePage) MoreURL() string {
	v := url.Values{"more": {"1"}}
	if p.Feed.Query != "" {
		v.Set("query", p.Feed.Query)
	}
	return "/?" + v.Encode()
}

type movieButton struct {
	Category models.Category
	Label    string
	Active   bool
	Disabled bool
	Hint     string
	Action   string
}

type moviePage struct {
	Page
	Movie    *models.Movie
	NotFound bool
	Buttons  []movieButton
}

type listPage struct {
	Page
	Category   models.Category
	Heading    string
	Prompt     string
	Entries    []models.ListEntry
	LoadFailed bool
}

type loginPage struct {
	Page
	Email     string
	Error     string
	Providers []*oauth.Provider
}

type signUpPage struct {
	Page
	Email string
	Error string
}

// toggleLabel is the button text for a category in the given state.
func toggleLabel(category models.Category, membership models.Membership) string {
	present := membership == models.MembershipPresent
	switch category {
	case models.CategoryFavorites:
		if present {
			return "✓ In Favorites"
		}
		return "⭐ Add to Favorites"
	case models.CategoryWatched:
		if present {
			return "✅ In Watched"
		}
		return "✅ Mark as Watched"
	case models.CategoryWatchLater:
		if present {
			return "🕓 Saved"
		}
		return "🕓 Watch Later"
	}
	return category.DisplayName()
}

// movieButtons turns confirmed memberships into toggle buttons. A button is
// disabled while its toggle is in flight or while its membership is unknown.
func movieButtons(movieID int, states []models.MembershipState) []movieButton {
	buttons := make([]movieButton, 0, len(states))
	for _, st := range states {
		b := movieButton{
			Category: st.Category,
			Label:    toggleLabel(st.Category, st.Membership),
			Active:   st.Membership == models.MembershipPresent,
			Action:   "/movies/" + models.MovieDocID(movieID) + "/toggle/" + string(st.Category),
		}
		switch {
		case st.Busy:
			b.Disabled = true
			b.Hint = "Updating…"
		case st.Membership == models.MembershipUnknown:
			b.Disabled = true
			b.Hint = "List status unavailable"
		}
		buttons = append(buttons, b)
	}
	return buttons
}

// anonymousButtons are shown to signed-out visitors; submitting one asks them to sign in.
func anonymousButtons(movieID int) []movieButton {
	states := make([]models.MembershipState, 0, len(models.Categories))
	for _, c := range models.Categories {
		states = append(states, models.MembershipState{Category: c, Membership: models.MembershipAbsent})
	}
	return movieButtons(movieID, states)
}

// signInPrompt is shown on a list page to anonymous visitors.
func signInPrompt(category models.Category) string {
	return "Please log in to view your " + strings.ToLower(category.Heading()) + "."
}
