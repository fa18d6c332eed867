package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User is the identity reported by Firebase Auth. The app never mutates it.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Name is the display name, or "User" when the provider supplied none.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return "User"
}

// Initial is the upper-cased first letter used for the placeholder avatar.
func (u *User) Initial() string {
	src := u.DisplayName
	if src == "" {
		src = u.Email
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(src)
	return string(unicode.ToUpper(r))
}

// UserProfile is the app-owned document at users/{uid}; the list
// sub-collections hang off it.
type UserProfile struct {
	ID           string    `json:"id" firestore:"-"` // Firebase Auth UID, also the document ID
	Email        string    `json:"email" firestore:"email"`
	DisplayName  string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL     string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	LastSignInAt time.Time `json:"lastSignInAt" firestore:"lastSignInAt"`
}

// Session is the outcome of a successful sign-in: a Firebase session cookie
// value and the identity it belongs to.
type Session struct {
	Cookie    string        `json:"-"`
	ExpiresIn time.Duration `json:"expiresIn"`
	User      User          `json:"user"`
}

// Provider identifies a federated sign-in method.
type Provider string

const (
	ProviderGoogle Provider = "google.com"
	ProviderGitHub Provider = "github.com"
)
