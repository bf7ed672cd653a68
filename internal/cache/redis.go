// Package cache holds the Redis-backed lookaside caches: resolved API
// key identities and external price quotes. Both are read-mostly and
// safe to lose; Redis going away degrades latency, not correctness.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client behind the identity and quote caches.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies connectivity before returning.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Cache traffic is one GET per authenticated request plus the
	// occasional SET; a small pool with a short checkout timeout is
	// enough, and a stuck Redis should fail fast rather than queue.
	opt.PoolSize = 8
	opt.MinIdleConns = 1
	opt.PoolTimeout = 2 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity. Backs the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
