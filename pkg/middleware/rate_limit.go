package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/organize/tasktracker/pkg/metrics"
	"golang.org/x/time/rate"
)

// per-key limiter store (in-memory token buckets)
var limiterStore sync.Map // map[string]*rate.Limiter

func getLimiter(key string, rps float64, burst int) *rate.Limiter {
	v, _ := limiterStore.LoadOrStore(key, rate.NewLimiter(rate.Limit(rps), burst))
	return v.(*rate.Limiter)
}

// limitKey prefers the authenticated principal's email, then the client IP.
func limitKey(c *gin.Context) string {
	if p, ok := PrincipalFrom(c); ok && p.Email != "" {
		return "principal:" + p.Email
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware enforces a token-bucket limit per key. It must run after
// AuthGate for per-principal limiting. rps = events per second, burst = bucket size.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := getLimiter(limitKey(c), rps, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded", "code": "RATE_LIMITED"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
