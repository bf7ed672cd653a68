package cache

import (
	"context"
	"strconv"
	"time"
)

// quotePrefix is the Redis key prefix for cached price quotes.
const quotePrefix = "quote:"

// GetQuote returns a cached price for symbol/vs, with ok=false on miss.
// Cache errors read as misses so lookups fall through to the upstream.
func (c *Cache) GetQuote(ctx context.Context, symbol, vs string) (float64, bool) {
	val, err := c.client.Get(ctx, quotePrefix+symbol+":"+vs).Result()
	if err != nil {
		return 0, false
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// SetQuote caches a price for symbol/vs with the given TTL.
// Best effort: a failed write just means the next lookup goes upstream.
func (c *Cache) SetQuote(ctx context.Context, symbol, vs string, price float64, ttl time.Duration) {
	_ = c.client.Set(ctx, quotePrefix+symbol+":"+vs,
		strconv.FormatFloat(price, 'f', -1, 64), ttl).Err()
}
