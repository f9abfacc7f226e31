package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitPrefix = "ratelimit:"
	rateLimitWindow = time.Minute
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts requests per key in fixed one-minute windows
type RateLimiter struct {
	client *Client
	limit  int
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter allowing requestsPerMinute plus burst
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  requestsPerMinute + burst,
		now:    time.Now,
	}
}

// Allow records one request for key and reports whether it fits in the current window
func (r *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	fullKey, windowStart := windowKey(key, r.now())

	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, rateLimitWindow)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Decision{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := int(incrCmd.Val())
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= r.limit,
		Limit:     r.limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(rateLimitWindow),
	}, nil
}

// windowKey names the counter for key in the window containing now
func windowKey(key string, now time.Time) (string, time.Time) {
	start := now.Truncate(rateLimitWindow)
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, start.Unix()), start
}
