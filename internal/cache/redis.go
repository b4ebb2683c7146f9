// Package cache provides an optional Redis-backed byte cache for
// derived report payloads. A nil *Redis is a no-op, so callers never
// branch on whether Redis is configured.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
}

// New connects and verifies a Redis client.
func New(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}

// Get returns the cached value and whether it was present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return nil, false
		}
		return nil, false
	}
	return val, true
}

// Set stores a value with a TTL. Failures are ignored; the cache is
// purely an optimization over recomputing aggregates.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if r == nil {
		return
	}
	_ = r.client.Set(ctx, key, val, ttl).Err()
}

// Invalidate drops keys, used after writes that change aggregates.
func (r *Redis) Invalidate(ctx context.Context, keys ...string) {
	if r == nil || len(keys) == 0 {
		return
	}
	_ = r.client.Del(ctx, keys...).Err()
}
