package core

import "errors"

// Errors returned by the services. Handlers map them to HTTP statuses.
var (
	ErrUnauthenticated       = errors.New("sign in required")
	ErrInvalidCategory       = errors.New("invalid list category")
	ErrInvalidMovie          = errors.New("invalid movie")
	ErrMovieNotFound         = errors.New("movie not found")
	ErrCatalogUnavailable    = errors.New("movie catalog unavailable")
	ErrToggleInFlight        = errors.New("a change to this list entry is already in progress")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrMissingCredentials    = errors.New("email and password are required")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrWeakPassword          = errors.New("password should be at least 6 characters")
	ErrEmailAlreadyInUse     = errors.New("email address is already in use")
	ErrUserDisabled          = errors.New("user account is disabled")
	ErrProviderNotConfigured = errors.New("sign-in provider is not configured")
)
