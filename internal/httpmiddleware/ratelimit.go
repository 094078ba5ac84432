// Package httpmiddleware holds gin middleware shared by the API server.
package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory per-client token bucket. Good enough for a
// single instance; a multi-instance deployment would move this to Redis.
type RateLimiter struct {
	capacity int
	perMin   int

	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	tokens   int
	refilled time.Time
}

// NewRateLimiter allows perMinute requests per client IP with bursts up to
// capacity. A non-positive capacity defaults to perMinute.
func NewRateLimiter(capacity, perMinute int) *RateLimiter {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &RateLimiter{
		capacity: capacity,
		perMin:   perMinute,
		clients:  make(map[string]*clientBucket),
	}
}

// Middleware enforces the limit per client IP. Paths in skip are exempt so
// probes and scrapes never get throttled.
func (l *RateLimiter) Middleware(skip ...string) gin.HandlerFunc {
	exempt := make(map[string]bool, len(skip))
	for _, p := range skip {
		exempt[p] = true
	}
	return func(c *gin.Context) {
		if exempt[c.Request.URL.Path] {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.take(ip, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) take(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[key]
	if !ok {
		l.clients[key] = &clientBucket{tokens: l.capacity - 1, refilled: now}
		return true
	}

	refill := int(now.Sub(b.refilled).Minutes() * float64(l.perMin))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.refilled = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
