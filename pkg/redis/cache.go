package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcovc/services/pkg/logger"
)

// Cache provides typed JSON caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
	logger *logger.Logger
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// WithLogger reports cache failures that GetOrLoad recovers from
func (c *Cache) WithLogger(log *logger.Logger) *Cache {
	c.logger = log
	return c
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A miss is (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.key(key)).Err()
}

// GetOrLoad reads key into dest, falling back to load on a miss or when
// Redis fails. A loaded value is written back with ttl; only load errors
// are returned.
func (c *Cache) GetOrLoad(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		c.warn(err, key, "Cache read failed, loading from source")
	}
	if found {
		return nil
	}

	value, err := load(ctx)
	if err != nil {
		return err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		c.warn(err, key, "Cache write-back failed")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return json.Unmarshal(data, dest)
}

func (c *Cache) warn(err error, key, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.WithError(err).WithField("key", key).Warn(msg)
}

// Predefined TTLs
const (
	TTLAuction   = 2 * time.Minute // 한 경매 라운드
	TTLSelection = 1 * time.Hour
)

// SelectionKey identifies the selection one solver made for one auction
func SelectionKey(auctionID int64, solver string) string {
	return fmt.Sprintf("selection:%d:%s", auctionID, solver)
}
