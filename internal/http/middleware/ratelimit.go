package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts hits per key inside a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
	Window() time.Duration
}

// RateLimit blocks a client IP once limiter says its window is spent. Limiter errors
// fail open.
func RateLimit(limiter RateLimiter, endpoint, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), endpoint+":"+c.ClientIP())
		if err != nil {
			c.Header("X-RateLimit-Error", "limiter-error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			RLBlocked.WithLabelValues(endpoint).Inc()
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": message})
			return
		}

		RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
	}
}

type clientInfo struct {
	start time.Time
	count int
}

// MemoryRateLimiter is the in-process fallback used when Redis is not configured.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	max     int
	window  time.Duration
	now     func() time.Time
}

func NewMemoryRateLimiter(maxRequests int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		clients: make(map[string]*clientInfo),
		max:     maxRequests,
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Limit() int            { return l.max }
func (l *MemoryRateLimiter) Window() time.Duration { return l.window }

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.start) >= l.window {
		if len(l.clients) > 10000 {
			l.pruneLocked(now)
		}
		ci = &clientInfo{start: now}
		l.clients[key] = ci
	}

	ci.count++
	remaining := l.max - ci.count
	if remaining < 0 {
		remaining = 0
	}
	return ci.count <= l.max, remaining, nil
}

func (l *MemoryRateLimiter) pruneLocked(now time.Time) {
	for k, ci := range l.clients {
		if now.Sub(ci.start) >= l.window {
			delete(l.clients, k)
		}
	}
}
