// ratelimit.go throttles login attempts per client IP using a token bucket.
//
// How token bucket works:
// - Each client IP gets a "bucket" with N tokens (N = attempts per hour)
// - Each login attempt consumes 1 token
// - Tokens refill at a steady rate (N tokens per hour)
// - If the bucket is empty, the attempt is rejected with 429 Too Many Requests
//
// This smooths out bursts instead of resetting a counter on the hour.
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HackNC/resume-parser/internal/models"
)

// RateLimiter tracks request rates per client.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	perHour int
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// bucket tracks the token state for a single client.
type bucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// allowResult contains the result of a rate limit check,
// including header information for the response.
type allowResult struct {
	allowed   bool
	remaining float64
	limit     float64
}

// NewRateLimiter creates a limiter allowing perHour requests per client
// per hour. A perHour below 1 disables limiting.
func NewRateLimiter(perHour int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		perHour: perHour,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	// Start background cleanup goroutine
	go rl.cleanup()

	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns Gin middleware keyed by client IP. Rejected requests are
// handed to onReject, which must write the response; nil answers with a
// JSON error.
func (rl *RateLimiter) Limit(onReject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.perHour < 1 {
			c.Next()
			return
		}

		// Check rate limit; this returns all info atomically to avoid race conditions
		result := rl.allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", formatFloat(result.limit))
		if !result.allowed {
			c.Header("X-RateLimit-Remaining", "0")
			if onReject != nil {
				onReject(c)
			} else {
				c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:   "rate_limit_exceeded",
					Message: "Too many login attempts. Try again later.",
					Code:    http.StatusTooManyRequests,
				})
			}
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", formatFloat(result.remaining))
		c.Next()
	}
}

// allow checks if a request should be allowed, consuming a token if so.
func (rl *RateLimiter) allow(key string) allowResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     float64(rl.perHour),
			maxTokens:  float64(rl.perHour),
			refillRate: float64(rl.perHour) / 3600.0, // tokens per second (rate per hour)
			lastRefill: now,
		}
		rl.buckets[key] = b
	}

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now

	if b.tokens < 1.0 {
		return allowResult{allowed: false, remaining: 0, limit: b.maxTokens}
	}

	b.tokens--
	return allowResult{allowed: true, remaining: b.tokens, limit: b.maxTokens}
}

// cleanup periodically removes stale buckets to prevent memory leaks.
func (rl *RateLimiter) cleanup() {
	// Go Pattern: time.Ticker sends values at regular intervals.
	// Always defer ticker.Stop() to release resources.
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

// prune drops buckets that have been idle for over an hour; they would be
// full again anyway.
func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// formatFloat converts a float to a string for headers.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.0f", f)
}
