package cache

import (
	"context"
	"fmt"
	"net"

	"medical-tourism-concierge/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Options maps the Redis section of the config onto client options.
// Every notification stream pins one pooled connection, so PoolSize bounds
// how many live streams and token lookups can run at once.
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}
}

// NewRedisClient opens a client and pings it once. Token revocation, rate
// limiting, idempotency and the notification hub all share this client.
func NewRedisClient(cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	opts := Options(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	log.WithFields(logrus.Fields{
		"addr":      opts.Addr,
		"db":        opts.DB,
		"pool_size": opts.PoolSize,
	}).Info("Connected to Redis")

	return client, nil
}
