package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// sceneTTL bounds how long an unused active scene stays cached.
const sceneTTL = time.Hour

// RedisStore implements SceneStore on Redis.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ SceneStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed scene store.
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStore{client: rdb, logger: logger}
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

// WaitForConnection waits for Redis to become available (used during startup).
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func sceneKey(id uuid.UUID) string {
	return "scene:" + id.String()
}

func (r *RedisStore) SaveScene(ctx context.Context, id uuid.UUID, sc *scene.SceneDefinition) error {
	sc.UpdatedAt = time.Now()

	data, err := json.Marshal(sc)
	if err != nil {
		r.logger.Error("Failed to marshal scene", "scene_id", id, "error", err)
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := r.client.Set(ctx, sceneKey(id), string(data), sceneTTL).Err(); err != nil {
		r.logger.Error("Failed to save scene", "scene_id", id, "error", err)
		return fmt.Errorf("failed to save scene: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadScene(ctx context.Context, id uuid.UUID) (*scene.SceneDefinition, error) {
	cmd := r.client.Get(ctx, sceneKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load scene", "scene_id", id, "error", err)
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	var sc scene.SceneDefinition
	if err := json.Unmarshal([]byte(cmd.Val()), &sc); err != nil {
		r.logger.Error("Failed to unmarshal scene", "scene_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	return &sc, nil
}

func (r *RedisStore) DeleteScene(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sceneKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete scene", "scene_id", id, "error", err)
		return fmt.Errorf("failed to delete scene: %w", err)
	}
	return nil
}
