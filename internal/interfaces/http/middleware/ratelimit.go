package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

// tokenBucket refills at rate tokens per second up to burst.
type tokenBucket struct {
	tokens   float64
	lastFill time.Time
}

// RateLimiter is a per-client token bucket limiter keyed by IP.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rate    float64
	burst   float64
	now     func() time.Time
}

// NewRateLimiter builds a limiter allowing rps sustained requests per
// second per client with a burst of 2x.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = 10
	}
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    rps,
		burst:   rps * 2,
		now:     time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow consumes one token for the key, reporting whether the request
// may proceed and how many tokens remain.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: rl.burst, lastFill: now}
		rl.buckets[key] = b
	}

	elapsed := now.Sub(b.lastFill).Seconds()
	b.tokens += elapsed * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastFill = now

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// cleanupLoop drops buckets idle long enough to have refilled fully.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := rl.now().Add(-10 * time.Minute)
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.lastFill.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit rejects requests over the per-client budget with 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := rl.Allow(c.ClientIP())
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(rl.burst)))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Writer.Header().Set("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": string(errors.ErrCodeTooManyRequests), "message": "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}
