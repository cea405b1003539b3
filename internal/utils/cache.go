package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Cache key construction
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// CacheTTL is the default lifetime for cached responses and quotes.
const CacheTTL = 60 * time.Second

// QuoteKey builds the cache key for a quote lookup
func QuoteKey(symbol string) string {
	return "quote:" + symbol
}

// HistoryKey builds the cache key for one page of a user's transaction history
func HistoryKey(userID uint, page, pageSize int) string {
	return "history:user:" + strconv.Itoa(int(userID)) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// InvalidateHistory drops the cached history pages for a user after a trade.
// Simple version: delete the first 5 pages at the default page size.
func InvalidateHistory(ctx context.Context, rdb *redis.Client, userID uint) {
	for page := 1; page <= 5; page++ {
		_ = DeleteCache(ctx, rdb, HistoryKey(userID, page, 20)) // Delete cache entry
	}
}
