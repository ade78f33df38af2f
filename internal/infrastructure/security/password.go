package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/communityboard/board/internal/core/domain"
)

// DefaultBcryptCost matches the cost used by existing data files.
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptHasher implements ports.PasswordHasher. Every hash carries its own
// random salt and cost, so Verify needs nothing but the stored string.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or DefaultBcryptCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash generates a salted digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password longer than %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. The comparison is constant
// time with respect to the digest contents.
//
// bcrypt only reads the first MaxPasswordBytes bytes, so a longer plaintext
// would match any stored password it starts with. Such input can never have
// been hashed here and is rejected after the comparison still runs.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	ok := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	return ok && len(plaintext) <= MaxPasswordBytes
}
