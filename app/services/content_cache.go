package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ContentCache stores rendered public content lists. A miss or any redis
// failure is reported as a miss; callers fall through to the database.
type ContentCache interface {
	GetJSON(ctx context.Context, resource, variant string, dst any) bool
	SetJSON(ctx context.Context, resource, variant string, value any)
	Invalidate(ctx context.Context, resource string)
}

// RedisContentCache implements ContentCache on go-redis. A nil client disables caching.
type RedisContentCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewContentCache creates a content cache under prefix with the given TTL
func NewContentCache(client *redis.Client, prefix string, ttl time.Duration) *RedisContentCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisContentCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisContentCache) key(resource, variant string) string {
	if variant == "" {
		variant = "all"
	}
	return fmt.Sprintf("%scontent:%s:%s", c.prefix, resource, variant)
}

// GetJSON decodes a cached value into dst and reports whether it was found
func (c *RedisContentCache) GetJSON(ctx context.Context, resource, variant string, dst any) bool {
	if c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, c.key(resource, variant)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("content cache get %s/%s failed: %v", resource, variant, err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("content cache decode %s/%s failed: %v", resource, variant, err)
		return false
	}
	return true
}

// SetJSON stores value for the configured TTL
func (c *RedisContentCache) SetJSON(ctx context.Context, resource, variant string, value any) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("content cache encode %s/%s failed: %v", resource, variant, err)
		return
	}
	if err := c.client.Set(ctx, c.key(resource, variant), raw, c.ttl).Err(); err != nil {
		log.Printf("content cache set %s/%s failed: %v", resource, variant, err)
	}
}

// Invalidate drops every cached variant of resource
func (c *RedisContentCache) Invalidate(ctx context.Context, resource string) {
	if c.client == nil {
		return
	}

	pattern := fmt.Sprintf("%scontent:%s:*", c.prefix, resource)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("content cache scan %s failed: %v", resource, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("content cache invalidate %s failed: %v", resource, err)
	}
}
