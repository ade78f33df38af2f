package ports

import (
	"context"
	"time"

	"github.com/communityboard/board/internal/core/domain"
)

// RegisterInput carries self-registration details. Name is optional.
type RegisterInput struct {
	Name     string
	Username string
	Password string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// AdminSeed carries the externally configured first administrator.
type AdminSeed struct {
	ID       string
	Name     string
	Username string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	SeedAdminIfAbsent(ctx context.Context, seed AdminSeed) error
}
