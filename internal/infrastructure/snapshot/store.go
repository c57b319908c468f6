package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"noctua/internal/domain"
	"noctua/internal/ports"
)

// Store persists one FeedData snapshot per pipeline stage as an indented
// JSON file ({step}.json) under the output directory. This file handoff is
// the only state shared between stages.
type Store struct {
	dir string
}

var _ ports.SnapshotStore = (*Store)(nil)

// NewStore targets the given output directory; it is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the snapshot for the given stage and returns the file path.
func (s *Store) Save(data *domain.FeedData, step string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", s.dir, err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s snapshot: %w", step, err)
	}

	path := s.path(step)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s snapshot: %w", step, err)
	}

	return path, nil
}

// Load reads the snapshot a previous stage produced. A missing file is
// reported with the stage that must be run first.
func (s *Store) Load(step string) (*domain.FeedData, error) {
	path := s.path(step)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("output of stage %q not found at %s: run the %q stage first", step, path, step)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s snapshot: %w", step, err)
	}

	var data domain.FeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", step, err)
	}

	return &data, nil
}

func (s *Store) path(step string) string {
	return filepath.Join(s.dir, step+".json")
}
