package ports

import (
	"context"

	"github.com/communityboard/board/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create appends a user. Returns domain.ErrDuplicateUsername when the
	// username is taken; nothing is written in that case.
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	HasAdmin(ctx context.Context) (bool, error)
	// CreateAdminIfAbsent inserts user only if no admin exists, checking and
	// writing in one step. It reports whether the user was inserted.
	CreateAdminIfAbsent(ctx context.Context, user domain.User) (bool, error)
}
