// Package redis carries the small Redis surface of the service: the shared
// client and the idempotency key store built on top of it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config captures the connection settings for the Redis client.
type Config struct {
	Addr string
	DB   int
	// Timeout bounds the startup ping. Zero means pingTimeout.
	Timeout time.Duration
}

// Connect builds a Redis client and proves connectivity with a ping before
// handing it out. The caller owns the returned client and must Close it.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}
