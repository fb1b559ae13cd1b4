package ratelimit

import (
	"MediVerify/internal/core/ports"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisThrottle is a fixed-window counter shared by every replica.
type RedisThrottle struct {
	client  *redis.Client
	prefix  string
	window  time.Duration
	maxReqs int64
	log     zerolog.Logger
}

var _ ports.RequestThrottle = (*RedisThrottle)(nil)

func NewRedisThrottle(client *redis.Client, window time.Duration, maxReqs int, baseLogger *zerolog.Logger) *RedisThrottle {
	return &RedisThrottle{
		client:  client,
		prefix:  "mediverify:throttle:",
		window:  window,
		maxReqs: int64(maxReqs),
		log:     baseLogger.With().Str("component", "redis_throttle").Logger(),
	}
}

// Allow increments the key's counter; the first hit starts the window.
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	k := t.prefix + key

	count, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return false, fmt.Errorf("redis expire: %w", err)
		}
	}

	if count > t.maxReqs {
		t.log.Debug().Str("key", key).Int64("count", count).Msg("Throttle limit reached")
		return false, nil
	}
	return true, nil
}

// NewRedisClient connects using a redis:// URL, retrying a few times
// while the server comes up.
func NewRedisClient(ctx context.Context, url string, baseLogger *zerolog.Logger) (*redis.Client, error) {
	log := baseLogger.With().Str("component", "redis").Logger()

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	const maxRetries = 5
	for i := 1; i <= maxRetries; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			log.Info().Str("addr", opts.Addr).Msg("Redis connection established")
			return client, nil
		}
		log.Warn().Err(err).Int("attempt", i).Msg("Failed to connect to Redis")

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(i) * time.Second):
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("redis unreachable after %d attempts: %w", maxRetries, err)
}
