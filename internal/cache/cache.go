// Package cache provides an optional Redis cache for rendered report text.
// Every tool is read-only and idempotent against an unmodified store, so a
// report cached under its tool name and canonicalized arguments can be
// served verbatim within the TTL. A nil *Cache is a no-op: every Get is a
// miss and every Set is dropped, so the dispatcher needs no cache-enabled
// branch.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache caches report text in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Redis-backed report cache and verifies the connection.
func New(redisURL string, redisPassword string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if redisPassword != "" {
		opt.Password = redisPassword
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "report_cache"),
	}, nil
}

// Key derives the cache key for a tool call. Arguments are canonicalized
// through JSON marshaling (map keys sort deterministically) and hashed, so
// argument order on the wire does not fragment the cache.
func Key(tool string, args map[string]interface{}) string {
	canonical, err := json.Marshal(args)
	if err != nil {
		canonical = []byte(fmt.Sprintf("%v", args))
	}
	sum := sha256.Sum256(canonical)
	return fmt.Sprintf("report:%s:%s", tool, hex.EncodeToString(sum[:]))
}

// Get returns the cached report text for a tool call, if present.
func (c *Cache) Get(ctx context.Context, tool string, args map[string]interface{}) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}

	key := Key(tool, args)
	text, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache_get_failed", "key", key, "error", err)
		}
		return "", false
	}

	c.logger.Debug("cache_hit", "tool", tool, "key", key)
	return text, true
}

// Set stores report text for a tool call. Failures are logged and
// swallowed; the cache is an optimization, never a dependency.
func (c *Cache) Set(ctx context.Context, tool string, args map[string]interface{}, text string) {
	if c == nil || c.client == nil {
		return
	}

	key := Key(tool, args)
	if err := c.client.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Warn("cache_set_failed", "key", key, "error", err)
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
