// Package redis connects the shared pending-action store to a Redis server.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// Config defines connection parameters for the Redis client.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// New creates a Redis client configured with cfg and verifies the connection
// with a ping before returning it.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return rdb, nil
}
