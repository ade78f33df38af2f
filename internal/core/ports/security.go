package ports

import (
	"time"

	"github.com/communityboard/board/internal/core/domain"
)

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	Issue(userID, username string, role domain.Role) (token string, expiresAt time.Time, err error)
	// Verify returns domain.ErrUnauthenticated for every kind of failure.
	Verify(token string) (domain.Claims, error)
}
