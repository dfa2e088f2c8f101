package ratelimit

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements a fixed one-minute window per key. The INCR is the
// single atomic increment-and-check, so concurrent requests against the same
// key cannot slip past the limit.
type RedisStore struct {
	client *redislib.Client
	prefix string
	limit  int64
	window time.Duration
	logger *zap.Logger
}

func NewRedisStore(client *redislib.Client, perMinute int, prefix string, logger *zap.Logger) *RedisStore {
	if perMinute <= 0 {
		perMinute = 60
	}
	if prefix == "" {
		prefix = "throttle"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		limit:  int64(perMinute),
		window: time.Minute,
		logger: logger,
	}
}

// Allow fails open: a Redis outage must not take the API down with it.
func (s *RedisStore) Allow(ctx context.Context, key string) bool {
	bucket := time.Now().Unix() / int64(s.window.Seconds())
	redisKey := fmt.Sprintf("%s:%s:%d", s.prefix, key, bucket)

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
		return true
	}

	return incr.Val() <= s.limit
}
