// Package kvstore provides support to access the Redis key/value store.
package kvstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is the required properties to use the key/value store.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Open knows how to open a Redis client based on the configuration.
func Open(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// StatusCheck returns nil if it can successfully talk to Redis. It retries
// until the context is done.
func StatusCheck(ctx context.Context, client *redis.Client) error {
	for attempts := 1; ; attempts++ {
		err := client.Ping(ctx).Err()
		if err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
