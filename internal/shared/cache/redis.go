package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"course-planner/internal/shared/telemetry"
)

const keyPrefix = "planner:"

// Redis stores values in a Redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Connect dials addr and pings it. An empty addr or a failed ping yields a
// Nop cache so the caller keeps working without caching.
func Connect(ctx context.Context, addr string) Cache {
	if addr == "" {
		telemetry.Info("cache.disabled", map[string]any{"reason": "REDIS_ADDR not set"})
		return Nop{}
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		telemetry.Error("cache.redis_unavailable", map[string]any{"addr": addr, "error": err.Error()})
		_ = client.Close()
		return Nop{}
	}
	telemetry.Info("cache.redis_connected", map[string]any{"addr": addr})
	return NewRedis(client)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Cache = (*Redis)(nil)
