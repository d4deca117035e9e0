package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStageIsInvisibleUntilCommit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feeds", "twitter.xml")
	pending, err := Stage(path, []byte("<feed/>"))
	if err != nil {
		t.Fatalf("Stage error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("destination must not exist before commit, stat err=%v", err)
	}

	if err := pending.Commit(); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil || string(raw) != "<feed/>" {
		t.Fatalf("ReadFile = %q, %v", raw, err)
	}
	if err := pending.Discard(); err != nil {
		t.Fatalf("Discard after Commit should be a no-op: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("committed file removed: %v", err)
	}
}

func TestDiscardKeepsPreviousContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "threads.xml")
	if err := WriteFileAtomic(path, []byte("old")); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}

	pending, err := Stage(path, []byte("new"))
	if err != nil {
		t.Fatalf("Stage error: %v", err)
	}
	if err := pending.Discard(); err != nil {
		t.Fatalf("Discard error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil || string(raw) != "old" {
		t.Fatalf("ReadFile = %q, %v", raw, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
}
