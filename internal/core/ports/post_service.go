package ports

import (
	"context"

	"github.com/communityboard/board/internal/core/domain"
)

// CreatePostInput carries the client-supplied fields of a new post. The
// author always comes from the caller's verified claims.
type CreatePostInput struct {
	Title   string
	Content string
}

// PostService defines use-case operations for posts.
type PostService interface {
	Create(ctx context.Context, caller domain.Claims, input CreatePostInput) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Delete(ctx context.Context, caller domain.Claims, id string) error
}
