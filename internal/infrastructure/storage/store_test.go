package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/ports"
)

func exerciseStore(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty storage: %v", err)
	}
	if state.Len() != 0 {
		t.Fatalf("expected empty state, got %d", state.Len())
	}

	state = domain.NewPublicationState("letterboxd-review-2", "letterboxd-review-1")
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 2 || !loaded.Has("letterboxd-review-1") || !loaded.Has("letterboxd-review-2") {
		t.Fatalf("unexpected state: %v", loaded.Sorted())
	}

	// Save is a full overwrite.
	if err := store.Save(ctx, domain.NewPublicationState("letterboxd-review-3")); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
	if loaded.Len() != 1 || !loaded.Has("letterboxd-review-3") {
		t.Fatalf("expected overwrite, got %v", loaded.Sorted())
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if loaded.Len() != 0 {
		t.Fatalf("expected empty state after clear, got %v", loaded.Sorted())
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestJSONStore(t *testing.T) {
	t.Parallel()

	exerciseStore(t, NewJSONStore(filepath.Join(t.TempDir(), "nested", "processed.json")))
}

func TestJSONStoreFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "processed.json")
	store := NewJSONStore(path)
	if err := store.Save(context.Background(), domain.NewPublicationState("b", "a")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != `["a","b"]` {
		t.Fatalf("unexpected file contents: %s", raw)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "processed.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewJSONStore(path).Load(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	store, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStoreLargeBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer store.Close()

	state := domain.NewPublicationState()
	for i := 0; i < 450; i++ {
		state.Add(fmt.Sprintf("letterboxd-review-%d", i))
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != 450 {
		t.Fatalf("expected 450 identities, got %d", loaded.Len())
	}
}
