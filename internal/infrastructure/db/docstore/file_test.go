package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/communityboard/board/internal/core/domain"
)

func TestFileBackend_MissingAndBlankFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "db.json")

	b, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer b.Close()

	doc, err := b.Load(context.Background())
	if err != nil || doc != nil {
		t.Fatalf("missing file: expected (nil, nil), got (%v, %v)", doc, err)
	}

	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err = b.Load(context.Background())
	if err != nil || doc != nil {
		t.Fatalf("blank file: expected (nil, nil), got (%v, %v)", doc, err)
	}
}

func TestFileBackend_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	b, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer b.Close()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := domain.NewDocument()
	doc.Users = append(doc.Users, domain.User{ID: "u1", Name: "Alice", Username: "alice", PasswordHash: "$2a$x", Role: domain.RoleMember})
	doc.Posts = append(doc.Posts, domain.Post{ID: "p1", Title: "Hello", Content: "World", AuthorID: "u1", CreatedAt: created})

	if err := b.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var generic map[string][]map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("file is not plain JSON: %v", err)
	}
	if generic["users"][0]["passwordHash"] != "$2a$x" || generic["posts"][0]["authorId"] != "u1" {
		t.Fatalf("unexpected on-disk layout: %s", raw)
	}

	loaded, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Users) != 1 || loaded.Users[0].Role != domain.RoleMember {
		t.Fatalf("users not restored: %+v", loaded.Users)
	}
	if len(loaded.Posts) != 1 || !loaded.Posts[0].CreatedAt.Equal(created) {
		t.Fatalf("posts not restored: %+v", loaded.Posts)
	}
}

func TestFileBackend_LoadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{"users":[{"id":"admin-001","name":"Default Administrator","username":"root","passwordHash":"h","role":"admin"},
{"id":"1700000000000","name":"Community Member","username":"bob","passwordHash":"h","role":"user"}],"posts":[]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer b.Close()

	doc, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Users[1].Role != domain.RoleMember {
		t.Fatalf("legacy user role not mapped to member")
	}
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte(`{"users": [`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer b.Close()

	if _, err := Open(context.Background(), b, zerolog.Nop()); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage for corrupt file, got %v", err)
	}
}

func TestFileBackend_SecondOpenIsLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	first, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if _, err := OpenFile(path); !errors.Is(err, domain.ErrStoreLocked) {
		t.Fatalf("expected ErrStoreLocked, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := OpenFile(path)
	if err != nil {
		t.Fatalf("expected lock to be free after Close: %v", err)
	}
	_ = second.Close()
}

func TestFileBackend_StoreRoundTripAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	b, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	store, err := Open(ctx, b, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Mutate(ctx, func(doc *domain.Document) error {
		doc.Posts = append(doc.Posts, domain.Post{ID: "p1", Title: "t", Content: "c"})
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	_ = b.Close()

	b2, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b2.Close()
	store2, err := Open(ctx, b2, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open after restart: %v", err)
	}
	if got := len(store2.Snapshot().Posts); got != 1 {
		t.Fatalf("expected 1 post after restart, got %d", got)
	}
}
