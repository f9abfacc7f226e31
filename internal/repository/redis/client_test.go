package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rrens/prompt-playground/internal/config"
)

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.ErrorContains(t, err, "failed to connect to Redis at 127.0.0.1:1")
}

func TestRateLimiter_Limit(t *testing.T) {
	limiter := NewRateLimiter(nil, 60, 10)
	assert.Equal(t, 70, limiter.limit)
}

func TestWindowKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 15, 42, 0, time.UTC)

	key, start := windowKey("ip:10.0.0.1", now)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC), start)
	assert.Equal(t, fmt.Sprintf("ratelimit:ip:10.0.0.1:%d", start.Unix()), key)

	next, _ := windowKey("ip:10.0.0.1", now.Add(time.Minute))
	assert.NotEqual(t, key, next)
}
