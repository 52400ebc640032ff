package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitPerIP enforces the configured per-minute request budget per
// client IP.
func RateLimitPerIP(perMinute, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = perMinute
	}
	limit := rate.Limit(float64(perMinute) / 60.0)

	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := buckets[ip]
		if !ok {
			lim = rate.NewLimiter(limit, burst)
			buckets[ip] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Too many requests"})
			return
		}
		c.Next()
	}
}
