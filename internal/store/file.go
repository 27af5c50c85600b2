package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ragchat/internal/contextutil"
)

// ErrUnavailable is returned when the snapshot file is missing or unreadable.
// Callers should tell the operator to run the build step.
var ErrUnavailable = errors.New("vector store unavailable")

// FileStore persists a Snapshot as a single JSON file. Rebuilds replace the
// file wholesale; readers always see either the old snapshot or the new one.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given file path.
// The file does not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and validates the snapshot from disk. A missing, unreadable or
// corrupt file is reported as ErrUnavailable with the cause attached.
func (s *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, s.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnavailable, s.path, err)
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "snapshot loaded",
		"path", s.path,
		"chunks", len(snap.Chunks),
		"embedding_model", snap.Metadata.EmbeddingModel,
	)
	return &snap, nil
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the target path, so a crash mid-write never leaves a
// partial snapshot behind.
func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing to save inconsistent snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "snapshot saved",
		"path", s.path,
		"chunks", len(snap.Chunks),
		"bytes", len(data),
	)
	return nil
}

// Ping reports whether a snapshot file is present. Used by health checks.
func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
