package docstore

import (
	"context"
	"errors"

	"github.com/communityboard/board/internal/core/domain"
)

// PostRepository implements ports.PostRepository over the shared document.
type PostRepository struct {
	store *Store
}

func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

// Create appends post after checking that its author exists.
func (r *PostRepository) Create(ctx context.Context, post domain.Post) (*domain.Post, error) {
	_, err := r.store.Mutate(ctx, func(doc *domain.Document) error {
		if _, ok := doc.UserByID(post.AuthorID); !ok {
			return domain.ErrUnauthenticated
		}
		doc.Posts = append(doc.Posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns a copy of all posts in insertion order.
func (r *PostRepository) List(_ context.Context) ([]domain.Post, error) {
	posts := r.store.Snapshot().Posts
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	return out, nil
}

// Delete removes the post with the given id. A missing id leaves the
// document untouched and does not write.
func (r *PostRepository) Delete(ctx context.Context, id string) (bool, error) {
	_, err := r.store.Mutate(ctx, func(doc *domain.Document) error {
		i := doc.PostIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		doc.Posts = append(doc.Posts[:i], doc.Posts[i+1:]...)
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
