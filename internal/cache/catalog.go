package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache keeps serialized catalog listing pages in Redis so the public
// book listing does not hit Postgres on every request. All methods are no-ops
// when the cache was constructed without a live connection, so the API can
// run without Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using a redis:// URL. The returned error only means
// Redis is unreachable; callers may choose to continue with a nil cache.
func New(redisURL string, ttl time.Duration) (*CatalogCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CatalogCache{client: client, ttl: ttl}, nil
}

func pageKey(page, pageSize int) string {
	return fmt.Sprintf("catalog:page:%d:%d", page, pageSize)
}

// GetPage unmarshals a cached page into dest. The bool reports a cache hit.
func (c *CatalogCache) GetPage(ctx context.Context, page, pageSize int, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, pageKey(page, pageSize)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetPage stores a page with the configured TTL.
func (c *CatalogCache) SetPage(ctx context.Context, page, pageSize int, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, pageKey(page, pageSize), raw, c.ttl).Err()
}

// Invalidate drops every cached catalog page. Called on any book write.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, "catalog:page:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the underlying connection.
func (c *CatalogCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
