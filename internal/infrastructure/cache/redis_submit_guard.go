package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisSubmitGuard implements SubmitGuard using Redis. This is
// suitable for distributed deployments where multiple instances need
// to share in-flight submit state.
type RedisSubmitGuard struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSubmitGuard creates a new Redis-based submit guard
func NewRedisSubmitGuard(cfg RedisConfig) (*RedisSubmitGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSubmitGuard{
		client:    client,
		keyPrefix: "guard:",
	}, nil
}

// NewRedisSubmitGuardWithClient creates a guard with an existing Redis
// client. This is useful for testing or when sharing a client across
// components.
func NewRedisSubmitGuardWithClient(client *redis.Client, keyPrefix string) *RedisSubmitGuard {
	if keyPrefix == "" {
		keyPrefix = "guard:"
	}
	return &RedisSubmitGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire marks a submit key as in flight with a TTL. Uses SETNX so
// concurrent submits race atomically; exactly one wins.
func (g *RedisSubmitGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit key: %w", err)
	}

	return result, nil
}

// Release frees the key so a failed submit can be retried
func (g *RedisSubmitGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release submit key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisSubmitGuard) Close() error {
	return g.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (g *RedisSubmitGuard) GetClient() *redis.Client {
	return g.client
}

// Ensure RedisSubmitGuard implements SubmitGuard
var _ shared.SubmitGuard = (*RedisSubmitGuard)(nil)
