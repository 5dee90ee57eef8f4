package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// SessionID derives a stable UUID from a human-readable session name, so
// the same name resumes the same snapshot across restarts.
func SessionID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("adventure-engine:"+name))
}

// Session is one running game: a session ID and the current world state.
// The state is the single source of truth for the session and has exactly
// one writer, the current turn.
type Session struct {
	ID    uuid.UUID
	State *world.State

	// FreshStart is set when no snapshot existed and the fixture seeded
	// a new game. Recovered is set when a snapshot existed but was
	// corrupt or structurally invalid, and the fixture replaced it.
	FreshStart bool
	Recovered  bool
}

// LoadSession restores a session from storage, falling back to the
// initial fixture when the snapshot is missing or corrupt. A corrupted
// save must never prevent the game from starting.
func LoadSession(ctx context.Context, store storage.Store, fixturePath string, id uuid.UUID, logger *slog.Logger) (*Session, error) {
	sess := &Session{ID: id}

	gs, err := store.LoadState(ctx, id)
	if err != nil {
		logger.Warn("Failed to load snapshot, falling back to fixture", "session_id", id, "error", err)
		sess.Recovered = true
	} else if gs != nil {
		if verr := gs.Validate(); verr != nil {
			logger.Warn("Snapshot is structurally invalid, falling back to fixture", "session_id", id, "error", verr)
			sess.Recovered = true
			gs = nil
		}
	}

	if gs == nil {
		if !sess.Recovered {
			sess.FreshStart = true
		}
		gs, err = world.LoadFixture(fixturePath)
		if err != nil {
			return nil, err
		}
		gs.ID = id

		// Seed the snapshot so the next start resumes instead of
		// re-reading the fixture. Failure here is not fatal; the next
		// committed turn will try again.
		if err := store.SaveState(ctx, id, gs); err != nil {
			logger.Warn("Failed to save initial snapshot", "session_id", id, "error", err)
		}
		logger.Info("Session started from fixture", "session_id", id, "fixture", fixturePath, "recovered", sess.Recovered)
	} else {
		gs.ID = id
		logger.Info("Session restored from snapshot", "session_id", id)
	}

	sess.State = gs
	return sess, nil
}
