package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/world"
	"github.com/redis/go-redis/v9"
)

// Default TTL for session snapshots. A turn save refreshes the TTL, so
// only abandoned sessions expire.
const stateTTL = 7 * 24 * time.Hour

// RedisStore implements the Store interface using Redis, for running the
// engine against a shared backend instead of the local filesystem.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store instance.
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisStore) SaveState(ctx context.Context, id uuid.UUID, gs *world.State) error {
	gs.UpdatedAt = time.Now()

	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal state", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	key := stateKey(id)
	if err := r.client.Set(ctx, key, string(data), stateTTL).Err(); err != nil {
		r.logger.Error("Failed to save state", "uuid", id, "error", err)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadState(ctx context.Context, id uuid.UUID) (*world.State, error) {
	cmd := r.client.Get(ctx, stateKey(id))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	var gs world.State
	if err := json.Unmarshal([]byte(cmd.Val()), &gs); err != nil {
		r.logger.Warn("Stored state failed to decode", "uuid", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &gs, nil
}

func (r *RedisStore) DeleteState(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, stateKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func stateKey(id uuid.UUID) string {
	return "gamestate:" + id.String()
}
