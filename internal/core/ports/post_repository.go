package ports

import (
	"context"

	"github.com/communityboard/board/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create appends the post. The author must exist in the document at the
	// time of the write.
	Create(ctx context.Context, post domain.Post) (*domain.Post, error)
	// List returns posts in insertion order.
	List(ctx context.Context) ([]domain.Post, error)
	// Delete removes the post with the given id and reports whether one was
	// removed. A missing id is not an error.
	Delete(ctx context.Context, id string) (bool, error)
}
