package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"file-drive/internal/session"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL       = 10 * time.Minute
	defaultSweepInterval = time.Minute
)

// RateLimiter implements token bucket rate limiting per identity.
// Keys idle for longer than idleTTL are dropped.
type RateLimiter struct {
	limiters sync.Map // key -> *limiterEntry
	rate     rate.Limit
	burst    int

	idleTTL       time.Duration
	sweepInterval time.Duration
	lastSweep     atomic.Int64
	now           func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:          rate.Limit(requestsPerSecond),
		burst:         burst,
		idleTTL:       defaultIdleTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

// getLimiter gets or creates a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now().UnixNano()
	rl.sweep(now)

	v, ok := rl.limiters.Load(key)
	if !ok {
		v, _ = rl.limiters.LoadOrStore(key, &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	}

	entry := v.(*limiterEntry)
	entry.lastSeen.Store(now)
	return entry.limiter
}

// sweep drops idle keys at most once per sweepInterval.
func (rl *RateLimiter) sweep(now int64) {
	last := rl.lastSweep.Load()
	if now-last < int64(rl.sweepInterval) || !rl.lastSweep.CompareAndSwap(last, now) {
		return
	}

	cutoff := now - int64(rl.idleTTL)
	rl.limiters.Range(func(key, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware limits signed-in users by user id and everyone else by IP.
// Mounted behind the session gate it therefore counts per user.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(limiterKey(c))

			if !limiter.Allow() {
				c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("Retry-After", "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}

			tokens := int(limiter.Tokens())
			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", tokens))

			return next(c)
		}
	}
}

func limiterKey(c echo.Context) string {
	if userID, err := session.GetUserID(c); err == nil {
		return "user:" + userID.String()
	}
	return "ip:" + c.RealIP()
}

// StrictRateLimiter is a more aggressive rate limiter for sign-up and login
type StrictRateLimiter struct {
	*RateLimiter
}

// NewStrictRateLimiter creates a strict rate limiter for sensitive operations
func NewStrictRateLimiter() *StrictRateLimiter {
	return &StrictRateLimiter{
		RateLimiter: NewRateLimiter(5, 10), // 5 req/sec, burst of 10
	}
}

// GlobalRateLimiter is a lenient per-IP limiter for all traffic
type GlobalRateLimiter struct {
	*RateLimiter
}

// NewGlobalRateLimiter creates a global rate limiter
func NewGlobalRateLimiter() *GlobalRateLimiter {
	return &GlobalRateLimiter{
		RateLimiter: NewRateLimiter(100, 200), // 100 req/sec, burst of 200
	}
}

// UserRateLimiter bounds each signed-in user
type UserRateLimiter struct {
	*RateLimiter
}

// NewUserRateLimiter creates a per-user limiter for the drive routes
func NewUserRateLimiter() *UserRateLimiter {
	return &UserRateLimiter{
		RateLimiter: NewRateLimiter(20, 40), // 20 req/sec, burst of 40
	}
}
