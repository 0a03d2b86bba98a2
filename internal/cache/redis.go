package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Cache backed by a Redis server. Lookup failures are reported
// as misses so an unavailable server only costs recomputation.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis creates a Redis cache for the server at addr.
func NewRedis(addr string, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	return &Redis{client: rdb, logger: logger}
}

// Get returns the cached value for key.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis lookup failed",
				zap.String("op", "cache.Redis.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return "", false
	}
	return val, true
}

// Set stores value under key with the given ttl.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Ping checks connectivity to the server.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
