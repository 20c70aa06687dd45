package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than ttl are evicted lazily so the map stays bounded by the set of
// recently active clients.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientBucket),
		rate:      r,
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

// GetLimiter returns the bucket for ip, creating it on first sight and
// sweeping out stale buckets at most once per ttl.
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= rl.ttl {
		for addr, bucket := range rl.clients {
			if now.Sub(bucket.lastSeen) >= rl.ttl {
				delete(rl.clients, addr)
			}
		}
		rl.lastSweep = now
	}

	bucket, ok := rl.clients[ip]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[ip] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter
}

// RateLimitMiddleware bounds the polling endpoint per client IP so a stuck
// frontend loop cannot hammer the store.
func RateLimitMiddleware() gin.HandlerFunc {
	rl := NewRateLimiter(rate.Every(time.Second), 10, 10*time.Minute)

	return func(c *gin.Context) {
		if !rl.GetLimiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
