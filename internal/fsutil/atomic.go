package fsutil

import (
	"errors"
	"os"
	"path/filepath"
)

// Pending is content written to a temp file beside its destination. It is
// not visible at the destination until Commit.
type Pending struct {
	tmp  string
	path string
	done bool
}

// Stage writes data next to path, creating parent directories as needed.
func Stage(path string, data []byte) (*Pending, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &Pending{tmp: tmp.Name(), path: path}, nil
}

// Path is the final destination.
func (p *Pending) Path() string {
	return p.path
}

// Commit renames the temp file onto the destination.
func (p *Pending) Commit() error {
	if p.done {
		return nil
	}
	if err := os.Rename(p.tmp, p.path); err != nil {
		return err
	}
	p.done = true
	return nil
}

// Discard removes the temp file. It is a no-op after Commit.
func (p *Pending) Discard() error {
	if p.done {
		return nil
	}
	p.done = true
	if err := os.Remove(p.tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// WriteFileAtomic replaces path with data via Stage and Commit.
func WriteFileAtomic(path string, data []byte) error {
	pending, err := Stage(path, data)
	if err != nil {
		return err
	}
	if err := pending.Commit(); err != nil {
		_ = pending.Discard()
		return err
	}
	return nil
}
