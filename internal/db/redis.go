package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/apota/mydms-sub010/internal/config"
)

// ErrRedisDisabled is returned by OpenRedis without an address.
var ErrRedisDisabled = errors.New("redis is not configured")

// OpenRedis connects to cfg.Addr and checks the connection.
func OpenRedis(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrRedisDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, errors.Wrapf(err, "redis ping %s", cfg.Addr)
	}

	return rdb, nil
}
