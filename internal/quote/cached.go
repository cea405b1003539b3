package quote

import (
	"context" // Context for Redis operations
	"strings" // Symbol normalization

	"stock_portfolio/internal/utils" // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
)

// Cached is a read-through Redis cache in front of another Provider.
// Cache failures fall back to a live lookup; a stale or missing cache
// must never turn into a user-facing error.
type Cached struct {
	next Provider      // Underlying provider
	rdb  *redis.Client // Redis client
}

// NewCached wraps a provider with a Redis cache
func NewCached(next Provider, rdb *redis.Client) *Cached {
	return &Cached{next: next, rdb: rdb}
}

// Lookup returns a cached quote when fresh, otherwise asks the underlying
// provider and caches the answer
func (c *Cached) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol)) // Canonicalize the cache key
	key := utils.QuoteKey(symbol)                       // Cache key for this symbol
	var cached Quote
	found, err := utils.GetCache(ctx, c.rdb, key, &cached) // Try the cache first
	if err == nil && found {
		return &cached, nil // Return cached quote
	}
	q, err := c.next.Lookup(ctx, symbol) // Live lookup
	if err != nil {
		return nil, err // Lookup failures are not cached
	}
	_ = utils.SetCache(ctx, c.rdb, key, q, utils.CacheTTL) // Cache the quote
	return q, nil
}
