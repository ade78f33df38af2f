package docstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/communityboard/board/internal/core/domain"
)

// MemoryBackend keeps the encoded document in memory. It round-trips through
// JSON on every Save and Load so it behaves like a real backend: nothing the
// store holds is shared with what was persisted.
type MemoryBackend struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	saveErr error
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Load(_ context.Context) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	var doc domain.Document
	if err := json.Unmarshal(m.data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *MemoryBackend) Save(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *MemoryBackend) Ping(_ context.Context) error { return nil }

// FailSaves makes every subsequent Save return err. Pass nil to recover.
func (m *MemoryBackend) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves reports how many writes succeeded.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
