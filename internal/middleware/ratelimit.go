package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wawa-academy/erp-server/internal/response"
)

// RateLimiter is a fixed-window limiter keyed by an arbitrary request key.
// The login endpoint uses it to slow down PIN guessing.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter allows limit requests per key every period. Idle keys are
// dropped until ctx is done.
func NewRateLimiter(ctx context.Context, limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
	go rl.sweep(ctx)
	return rl
}

// Allow records one request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Middleware limits by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return rl.MiddlewareBy(func(c *gin.Context) string { return c.ClientIP() })
}

// MiddlewareBy limits by the key returned for each request.
func (rl *RateLimiter) MiddlewareBy(key func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(key(c)) {
			c.Header("Retry-After", retryAfter(rl.period))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.windows {
				if now.Sub(w.start) >= rl.period {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func retryAfter(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
