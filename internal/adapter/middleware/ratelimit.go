package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 120
	DefaultBurstSize = 20
	// CleanupInterval is the interval for cleaning up stale limiters
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is the time-to-live for inactive limiters
	LimiterTTL = 10 * time.Minute
)

// RateLimiter is a token bucket per client key.
type RateLimiter struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	perMinute int
	rateLimit float64
	burstSize int
	stopCh    chan struct{}
	stopOnce  sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

func NewRateLimiterWithConfig(requestsPerMinute int, burstSize int) *RateLimiter {
	rl := &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		perMinute: requestsPerMinute,
		rateLimit: float64(requestsPerMinute) / 60.0,
		burstSize: burstSize,
		stopCh:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (r *RateLimiter) entry(key string) *limiterEntry {
	e, ok := r.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.rateLimit), r.burstSize)}
		r.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e
}

// Allow spends one token for key and reports the tokens left.
func (r *RateLimiter) Allow(key string) (allowed bool, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entry(key)
	allowed = e.limiter.Allow()
	remaining = int(e.limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// resetAfter is roughly how long until key's bucket is full again.
func (r *RateLimiter) resetAfter(remaining int) time.Duration {
	if r.rateLimit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(r.burstSize-remaining) / r.rateLimit * float64(time.Second))
}

func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evict(time.Now().Add(-LimiterTTL))
		case <-r.stopCh:
			return
		}
	}
}

// evict drops limiters idle since before cutoff.
func (r *RateLimiter) evict(cutoff time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(r.limiters, key)
			log.Debug().Str("client", key).Msg("cleaned up stale rate limiter")
		}
	}
}

// Stop stops the cleanup goroutine
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// clientKey prefers the actor header and falls back to the client address.
func clientKey(c echo.Context) string {
	if actor := strings.TrimSpace(c.Request().Header.Get(HeaderActorID)); reHex32.MatchString(actor) {
		return "actor:" + actor
	}
	return "ip:" + c.RealIP()
}

// RateLimitMiddleware returns an Echo middleware that applies rate limiting
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := clientKey(c)
			allowed, remaining := rl.Allow(key)
			resetTime := time.Now().Add(rl.resetAfter(remaining))

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.perMinute))
			h.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			h.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

			if !allowed {
				retryAfter := int(time.Duration(float64(time.Second) / rl.rateLimit).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				h.Set("Retry-After", fmt.Sprintf("%d", retryAfter))

				log.Warn().
					Str("client", key).
					Int("retry_after", retryAfter).
					Msg("rate limit exceeded")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": fmt.Sprintf("too many requests, retry after %d seconds", retryAfter),
				})
			}
			return next(c)
		}
	}
}
