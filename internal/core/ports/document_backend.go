package ports

import (
	"context"

	"github.com/communityboard/board/internal/core/domain"
)

// DocumentBackend persists the whole document as one unit.
type DocumentBackend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Load returns the persisted document, or (nil, nil) when nothing has been
	// written yet.
	Load(ctx context.Context) (*domain.Document, error)
	// Save durably replaces the persisted document. Readers of the backend
	// must observe either the previous or the new document, never a mix.
	Save(ctx context.Context, doc *domain.Document) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
