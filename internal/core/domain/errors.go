package domain

import "errors"

// Error kinds returned by the core. Callers branch with errors.Is; the HTTP
// layer maps each kind to exactly one status code.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUnauthenticated covers a missing token, a bad or expired token and
	// bad login credentials alike.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrStorage         = errors.New("storage failure")

	ErrTooManyAttempts  = errors.New("too many failed login attempts")
	ErrAdminSeedMissing = errors.New("no admin exists and admin seed credentials are not configured")
	ErrStoreLocked      = errors.New("document store is locked by another process")
)
