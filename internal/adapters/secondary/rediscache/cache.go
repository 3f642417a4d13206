// Package rediscache stores computed dashboard summaries in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// DefaultPrefix namespaces the cache keys.
const DefaultPrefix = "rpa-dashboard"

// entry keeps the unhashed key so a hash collision reads as a miss.
type entry struct {
	Key     string          `json:"key"`
	Summary *domain.Summary `json:"summary"`
}

// Cache implements ports.AggregateCache on Redis.
type Cache struct {
	client redis.UniversalClient
	prefix string
}

var (
	_ ports.AggregateCache = (*Cache)(nil)
	_ ports.HealthChecker  = (*Cache)(nil)
)

// New wraps a connected client.
func New(client redis.UniversalClient, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// Connect parses a redis:// URL and verifies the connection.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// StorageKey maps a cache key to a bounded Redis key. Filter keys carry free
// text queries, so they are hashed.
func (c *Cache) StorageKey(key string) string {
	return c.prefix + ":summary:" + strconv.FormatUint(xxhash.Sum64String(key), 16)
}

// Get returns the cached summary for key.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Summary, bool, error) {
	data, err := c.client.Get(ctx, c.StorageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	if e.Key != key || e.Summary == nil {
		return nil, false, nil
	}
	return e.Summary, true, nil
}

// Set stores summary under key for ttl.
func (c *Cache) Set(ctx context.Context, key string, summary *domain.Summary, ttl time.Duration) error {
	data, err := json.Marshal(entry{Key: key, Summary: summary})
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return c.client.Set(ctx, c.StorageKey(key), data, ttl).Err()
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
