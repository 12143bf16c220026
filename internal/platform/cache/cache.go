// Package cache provides a JSON cache backed by Redis, and a no-op cache
// used when Redis is not configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values under string keys.
type Cache interface {
	// Get decodes the value stored at key into dst. It reports whether the key existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v at key for ttl. A zero ttl keeps the value until evicted.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Observer receives cache events: hit, miss, set and error.
type Observer interface {
	ObserveCache(cache, event string)
}

// Redis is a Cache backed by a go-redis client.
type Redis struct {
	client *redis.Client
	prefix string
	obs    Observer
}

var _ Cache = (*Redis)(nil)

// NewRedis connects to addr. obs may be nil.
func NewRedis(addr, password string, db int, prefix string, obs Observer) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		prefix: prefix,
		obs:    obs,
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.observe("miss")
		return false, nil
	}
	if err != nil {
		r.observe("error")
		return false, fmt.Errorf("redis get %q: %w", key, err)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		r.observe("error")
		return false, fmt.Errorf("redis decode %q: %w", key, err)
	}
	r.observe("hit")
	return true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis encode %q: %w", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, b, ttl).Err(); err != nil {
		r.observe("error")
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	r.observe("set")
	return nil
}

func (r *Redis) observe(event string) {
	if r.obs != nil {
		r.obs.ObserveCache("redis", event)
	}
}

// Nop is a Cache that stores nothing.
type Nop struct{}

var _ Cache = Nop{}

// Get always misses.
func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards the value.
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
