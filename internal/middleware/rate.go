package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleClientTTL is how long a client's limiter survives without requests.
const idleClientTTL = 3 * time.Minute

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
	}
}

func (cfg RateLimitConfig) limiter() *rate.Limiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
	})
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*client)
		lastSweep time.Time
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > idleClientTTL {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) > idleClientTTL {
					delete(clients, key)
				}
			}
			lastSweep = now
		}
		cl, exists := clients[ip]
		if !exists {
			cl = &client{limiter: cfg.limiter()}
			clients[ip] = cl
		}
		cl.lastSeen = now
		limiter := cl.limiter
		mu.Unlock()

		if !limiter.Allow() {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := cfg.limiter()

	return func(c *gin.Context) {
		if !limiter.Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// Throttle rate limits a stream of values, keeping the newest rejected value
// and applying it once the limiter allows.
type Throttle[T any] struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	apply   func(T)
	timer   *time.Timer
	pending T
	stopped bool
}

// NewThrottle creates a throttle calling apply for admitted values.
// apply runs with the throttle's lock held and must not call back into it.
func NewThrottle[T any](cfg RateLimitConfig, apply func(T)) *Throttle[T] {
	return &Throttle[T]{
		limiter: cfg.limiter(),
		apply:   apply,
	}
}

// Submit offers v. It reports whether v was applied immediately.
func (t *Throttle[T]) Submit(v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return false
	}
	if t.timer != nil {
		t.pending = v
		return false
	}
	if t.limiter.Allow() {
		t.apply(v)
		return true
	}

	t.pending = v
	t.timer = time.AfterFunc(t.limiter.Reserve().Delay(), t.flush)
	return false
}

func (t *Throttle[T]) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.timer = nil
	if t.stopped {
		return
	}
	t.apply(t.pending)
}

// Stop discards any pending value.
func (t *Throttle[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
