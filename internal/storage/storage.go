package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// ErrCorrupt marks a snapshot that exists but cannot be decoded. Callers
// fall back to the initial fixture rather than failing to start.
var ErrCorrupt = errors.New("corrupt state snapshot")

// Store defines the interface for world-state persistence.
type Store interface {
	// Ping tests the backend connection.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error

	// SaveState durably writes a state snapshot under the session ID.
	SaveState(ctx context.Context, id uuid.UUID, gs *world.State) error

	// LoadState retrieves the snapshot for a session ID.
	// Returns (nil, nil) when no snapshot exists.
	LoadState(ctx context.Context, id uuid.UUID) (*world.State, error)

	// DeleteState removes the snapshot for a session ID.
	DeleteState(ctx context.Context, id uuid.UUID) error
}
