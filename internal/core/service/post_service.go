package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/communityboard/board/internal/core/domain"
	"github.com/communityboard/board/internal/core/ports"
	"github.com/communityboard/board/internal/pkg/metrics"
)

type PostService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewPostService(repo ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger, now: time.Now}
}

// Create publishes a post authored by caller. Any authenticated role may
// post. Ids are UUIDv7, so they sort in creation order. CreatedAt is kept at
// millisecond precision, the finest every backend persists.
func (s *PostService) Create(ctx context.Context, caller domain.Claims, in ports.CreatePostInput) (*domain.Post, error) {
	if err := Permit(domain.ActionCreatePost, caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("create post: generate id: %w", err)
	}

	post, err := s.repo.Create(ctx, domain.Post{
		ID:        id.String(),
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  caller.UserID,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", caller.UserID).Msg("failed to create post")
		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(caller.Role.String()).Inc()
	s.logger.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post created")
	return post, nil
}

// List returns every post in the order they were stored. Display ordering is
// up to the caller.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.repo.List(ctx)
}

// Delete removes a post. Only admins may delete; a missing id yields
// domain.ErrNotFound and leaves the collection untouched.
func (s *PostService) Delete(ctx context.Context, caller domain.Claims, id string) error {
	if err := Permit(domain.ActionDeletePost, caller); err != nil {
		return err
	}
	if id == "" {
		return domain.ErrNotFound
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", id).Msg("failed to delete post")
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}

	metrics.PostsDeletedTotal.Inc()
	s.logger.Info().Str("post_id", id).Str("admin_id", caller.UserID).Msg("post deleted")
	return nil
}
