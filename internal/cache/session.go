// Package cache is the Redis-backed session store: refresh tokens keyed by
// user, the access-token blacklist and pending email verification codes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// Writer is the mutating half of the cache, usable inside Atomically.
type Writer interface {
	SetDataExpire(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteData(ctx context.Context, key string) error
}

type SessionCache struct {
	client *redis.Client
}

// Connect parses url, then pings with exponential backoff until maxWait elapses.
func Connect(ctx context.Context, url string, maxWait time.Duration) (*SessionCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxWait
	err = backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		slog.Warn("redis not reachable yet", "addr", opts.Addr, "error", err, "retry_in", wait)
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	slog.Info("redis connected", "addr", opts.Addr, "db", opts.DB)
	return New(client), nil
}

func New(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func (c *SessionCache) SetDataExpire(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// GetData reports ok=false for a missing key; err is reserved for backend failures.
func (c *SessionCache) GetData(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

func (c *SessionCache) DeleteData(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}

// Increment bumps the counter at key and returns the new value. The ttl is
// applied only when the counter is created, so it bounds the whole window.
func (c *SessionCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cache increment %q: %w", key, err)
	}
	return incr.Val(), nil
}

// Atomically queues the writes issued by fn and applies them in one MULTI/EXEC.
// Nothing is sent if fn returns an error.
func (c *SessionCache) Atomically(ctx context.Context, fn func(w Writer) error) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return fn(pipeWriter{pipe: pipe})
	})
	if err != nil {
		return fmt.Errorf("cache transaction: %w", err)
	}
	return nil
}

func (c *SessionCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SessionCache) Close() error {
	return c.client.Close()
}

type pipeWriter struct {
	pipe redis.Pipeliner
}

func (w pipeWriter) SetDataExpire(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	w.pipe.Set(ctx, key, value, ttl)
	return nil
}

func (w pipeWriter) DeleteData(ctx context.Context, key string) error {
	w.pipe.Del(ctx, key)
	return nil
}
