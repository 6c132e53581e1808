package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/IbnuAlii/GuulSideApp/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to addr. It returns nil when addr is empty or the ping
// fails, so callers fall back to the in-memory limiter.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return client
}

// RedisRateLimiter is a fixed-window limiter using INCR/EXPIRE.
// key format: rl:<window_seconds>:<key>
type RedisRateLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, max: maxRequests, window: window}
}

func (l *RedisRateLimiter) Limit() int            { return l.max }
func (l *RedisRateLimiter) Window() time.Duration { return l.window }

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	rkey := "rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + key

	val, err := l.client.Incr(ctx, rkey).Result()
	if err != nil {
		return true, l.max, err
	}
	if val == 1 {
		// first hit opens the window
		l.client.Expire(ctx, rkey, l.window)
	}

	remaining := int64(l.max) - val
	if remaining < 0 {
		remaining = 0
	}
	return val <= int64(l.max), int(remaining), nil
}
