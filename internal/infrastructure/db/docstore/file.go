package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	"github.com/communityboard/board/internal/core/domain"
)

// FileBackend stores the document as an indented JSON file. Writes go to a
// temporary file that is synced and renamed over the target, so a reader
// never sees a partially written document.
//
// Only one process may use a data file at a time; OpenFile takes an advisory
// lock on "<path>.lock" and fails with domain.ErrStoreLocked if another
// process holds it.
type FileBackend struct {
	path string
	lock *flock.Flock
}

// OpenFile prepares path for use, creating its directory if needed.
func OpenFile(path string) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("open document file: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open document file: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock document file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", domain.ErrStoreLocked, path)
	}

	return &FileBackend{path: path, lock: lock}, nil
}

func (b *FileBackend) Name() string { return "file" }

// Path returns the location of the data file.
func (b *FileBackend) Path() string { return b.path }

// Load reads the data file. A missing or blank file is reported as (nil, nil).
func (b *FileBackend) Load(_ context.Context) (*domain.Document, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.path, err)
	}
	return &doc, nil
}

// Save atomically replaces the data file with doc.
func (b *FileBackend) Save(_ context.Context, doc *domain.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := atomic.WriteFile(b.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	return nil
}

// Ping checks that the data directory is still accessible.
func (b *FileBackend) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(b.path)); err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	return nil
}

// Close releases the process lock.
func (b *FileBackend) Close() error {
	return b.lock.Close()
}
