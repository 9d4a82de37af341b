package repository

import (
	"context"
	"fmt"
	"time"

	"studybud/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// hitScript counts one request and returns the new count with the window's
// remaining milliseconds. A key left without an expiry gets a fresh window.
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if count == 1 or ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimitRepository keeps fixed-window request counters in Redis.
type RateLimitRepository interface {
	// Hit counts one request against key and reports the count so far in the
	// current window and the time until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type rateLimitRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRateLimitRepository(redis *redis.Client, log logger.Logger) RateLimitRepository {
	return &rateLimitRepository{redis: redis, log: log}
}

func (r *rateLimitRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	result, err := hitScript.Run(ctx, r.redis, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		r.log.Error("Failed to count rate limit hit", "error", err, "key", key)
		return 0, 0, err
	}
	if len(result) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply: %v", result)
	}

	return result[0], time.Duration(result[1]) * time.Millisecond, nil
}
