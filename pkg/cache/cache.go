// Package cache wraps Redis in the cache-aside helper used by the
// subscription, image and identity services.
//
// Values are stored as JSON. When Redis is unreachable at boot the client
// degrades to a no-op: every Get is a miss and every Set succeeds silently,
// so the application keeps serving from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lidosole/lidosole/config"
	"github.com/lidosole/lidosole/pkg/metrics"
)

// Cache is a JSON key/value store with explicit expiration.
type Cache struct {
	rdb *redis.Client
}

// Connect builds a Cache from config and verifies the connection.
// On ping failure the returned Cache is a safe no-op and err reports why.
func Connect() (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return &Cache{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Cache{rdb: rdb}, nil
}

// Nop returns a cache that never hits. Used in tests.
func Nop() *Cache { return &Cache{} }

// Get unmarshals the cached value under key into dest.
// Returns true on a hit, false on miss or any error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
