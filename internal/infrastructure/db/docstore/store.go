// Package docstore keeps the shared users+posts document consistent under
// concurrent requests.
//
// Readers take the last committed snapshot without locking. Writers go
// through Mutate, which holds a process-wide mutex across the whole
// read-modify-write-persist cycle so two concurrent writers can never
// interleave and drop each other's update. A mutation is published to
// readers only after the backend has durably stored it.
package docstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/communityboard/board/internal/core/domain"
	"github.com/communityboard/board/internal/core/ports"
	"github.com/communityboard/board/internal/pkg/metrics"
)

// MutateFunc transforms a private copy of the document. Returning an error
// aborts the mutation and nothing is persisted.
type MutateFunc func(doc *domain.Document) error

// Store is the single owner of the persisted document.
type Store struct {
	backend ports.DocumentBackend
	log     zerolog.Logger

	mu      sync.Mutex
	current atomic.Pointer[domain.Document]
}

// Open loads the document from backend. An empty backend yields the default
// empty document without error.
func Open(ctx context.Context, backend ports.DocumentBackend, log zerolog.Logger) (*Store, error) {
	s := &Store{
		backend: backend,
		log:     log.With().Str("component", "docstore").Str("backend", backend.Name()).Logger(),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the last committed document. Callers must not modify it.
func (s *Store) Snapshot() *domain.Document {
	return s.current.Load()
}

// Load re-reads the persisted document and returns it. It is Reload followed
// by Snapshot.
func (s *Store) Load(ctx context.Context) (*domain.Document, error) {
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Reload replaces the in-memory snapshot with what the backend holds. It
// waits for any in-flight mutation to finish first.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load document: %w", domain.ErrStorage, err)
	}
	if doc == nil {
		s.log.Info().Msg("no persisted document, starting empty")
		doc = domain.NewDocument()
	}
	doc.Normalize()

	s.current.Store(doc)
	s.log.Debug().
		Int("users", len(doc.Users)).
		Int("posts", len(doc.Posts)).
		Msg("document loaded")
	return nil
}

// Mutate applies fn to a copy of the current document and persists the
// result before returning it. Only one Mutate runs at a time.
//
// If fn fails, its error is returned unchanged and nothing is written. If the
// write fails, the previous snapshot stays current and the error wraps
// domain.ErrStorage. Once started, a write is not abandoned when ctx is
// cancelled.
func (s *Store) Mutate(ctx context.Context, fn MutateFunc) (*domain.Document, error) {
	waitStart := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.DocumentMutationWait.Observe(time.Since(waitStart).Seconds())

	next := s.current.Load().Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Normalize()

	name := s.backend.Name()
	start := time.Now()
	err := s.backend.Save(context.WithoutCancel(ctx), next)
	metrics.DocumentFlushDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DocumentFlushErrorsTotal.WithLabelValues(name).Inc()
		s.log.Error().Err(err).Msg("document flush failed, mutation discarded")
		return nil, fmt.Errorf("%w: save document: %w", domain.ErrStorage, err)
	}

	s.current.Store(next)
	return next, nil
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}
