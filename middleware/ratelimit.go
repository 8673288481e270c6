package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"resto-backend/config"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a token-bucket limiter keyed by client IP. Buckets refill
// continuously, so "maxRequests per window" is a rolling allowance rather
// than a fixed interval that resets.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   float64
	refill  float64 // tokens per second
	window  time.Duration
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter allows maxRequests per window per client IP, bursting up to
// maxRequests at once.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		burst:   float64(maxRequests),
		refill:  float64(maxRequests) / window.Seconds(),
		window:  window,
	}

	go rl.evictStale()

	return rl
}

// NewRateLimiterFromEnv builds the limiter from RATE_LIMIT_REQUESTS and
// RATE_LIMIT_WINDOW (Go duration syntax, e.g. "1m"). Defaults to 300
// requests per minute when unset or unparsable.
func NewRateLimiterFromEnv() *RateLimiter {
	maxRequests, err := strconv.Atoi(config.GetEnv("RATE_LIMIT_REQUESTS", "300"))
	if err != nil || maxRequests <= 0 {
		maxRequests = 300
	}
	window, err := time.ParseDuration(config.GetEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil || window <= 0 {
		window = time.Minute
	}
	return NewRateLimiter(maxRequests, window)
}

// evictStale drops buckets idle long enough to have fully refilled anyway.
func (rl *RateLimiter) evictStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	staleAfter := 2 * rl.window
	if staleAfter < 10*time.Minute {
		staleAfter = 10 * time.Minute
	}

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, b := range rl.buckets {
			if now.Sub(b.lastSeen) > staleAfter {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// take consumes one token for the client, reporting whether one was available.
func (rl *RateLimiter) take(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[clientIP]
	if !exists {
		rl.buckets[clientIP] = &bucket{tokens: rl.burst - 1, lastSeen: now}
		return true
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.refill
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Middleware returns a gin middleware enforcing the limit per client IP.
// Health probes poll frequently and are never throttled.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/health" {
			c.Next()
			return
		}
		if !rl.take(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
