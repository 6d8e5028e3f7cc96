package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClientRateLimiter tracks a token bucket per client IP. The local API is
// single-user in practice, but the listener may sit on a LAN interface.
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// NewClientRateLimiter creates a limiter pool with the given per-client rate.
func NewClientRateLimiter(r rate.Limit, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

// Limiter returns the bucket for ip, creating it on first sight.
func (l *ClientRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// RateLimiter is a middleware rejecting requests that exceed the per-IP rate.
func RateLimiter(r rate.Limit, burst int) gin.HandlerFunc {
	pool := NewClientRateLimiter(r, burst)
	return func(c *gin.Context) {
		if !pool.Limiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
