package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/fsutil"
	"ReviewFeeds/internal/ports"
)

// JSONStore keeps the publication state as a flat JSON array of identities.
type JSONStore struct {
	path string
}

var _ ports.StateStore = (*JSONStore)(nil)

// NewJSONStore binds the store to a file path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load returns an empty state when the file does not exist.
func (s *JSONStore) Load(ctx context.Context) (domain.PublicationState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewPublicationState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", s.path, err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	return domain.NewPublicationState(ids...), nil
}

// Save overwrites the whole file atomically.
func (s *JSONStore) Save(ctx context.Context, state domain.PublicationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(state.Sorted())
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := fsutil.WriteFileAtomic(s.path, payload); err != nil {
		return fmt.Errorf("write state %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the state file; a missing file is not an error.
func (s *JSONStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state %s: %w", s.path, err)
	}
	return nil
}
