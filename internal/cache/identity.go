package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utilgate/utilgate/internal/auth"
)

const (
	// identityPrefix is the Redis key prefix for cached key owners.
	identityPrefix = "identity:"
	// identityTTL is short: keys are never revoked today, but a short
	// TTL keeps that door open without a cache-invalidation path.
	identityTTL = 60 * time.Second
)

// GetIdentity returns the cached owner for an API key, or nil on miss.
// Cache errors read as misses; the store remains the source of truth.
func (c *Cache) GetIdentity(ctx context.Context, apiKey string) (*auth.Identity, error) {
	data, err := c.client.Get(ctx, identityPrefix+hashKey(apiKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var id auth.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// SetIdentity caches the owner resolved for an API key.
func (c *Cache) SetIdentity(ctx context.Context, apiKey string, id *auth.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, identityPrefix+hashKey(apiKey), data, identityTTL).Err()
}

// hashKey avoids storing raw API keys as Redis key names.
func hashKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:16])
}
