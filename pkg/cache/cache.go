// Package cache stores extracted document text so that repeated requests
// for the same URL skip the download and parse.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the Redis cache.
const DefaultPrefix = "pdftext:"

// Cache is a string key/value store with a per-entry lifetime.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error         { return nil }

// RedisCache keeps entries in Redis under Prefix with TTL expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps client. A zero ttl keeps entries until evicted.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedis(client, DefaultPrefix, ttl), nil
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value string) error {
	return c.client.Set(ctx, c.key(key), value, c.ttl).Err()
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }
