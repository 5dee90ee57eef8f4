package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// FileStore persists each session as one JSON document on disk. Writes go
// through a temp file and rename, so a crash mid-save leaves the previous
// snapshot intact rather than a truncated file.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if dir == "" {
		dir = "./game_data"
	}
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

func (f *FileStore) Ping(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("state directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) SaveState(ctx context.Context, id uuid.UUID, gs *world.State) error {
	gs.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		f.logger.Error("Failed to marshal state", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	path := f.path(id)
	tmp, err := os.CreateTemp(f.dir, "state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	f.logger.Debug("State saved", "uuid", id, "path", path)
	return nil
}

func (f *FileStore) LoadState(ctx context.Context, id uuid.UUID) (*world.State, error) {
	path := f.path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var gs world.State
	if err := json.Unmarshal(data, &gs); err != nil {
		f.logger.Warn("Snapshot failed to decode", "uuid", id, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	return &gs, nil
}

func (f *FileStore) DeleteState(ctx context.Context, id uuid.UUID) error {
	err := os.Remove(f.path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (f *FileStore) path(id uuid.UUID) string {
	return filepath.Join(f.dir, id.String()+".json")
}
