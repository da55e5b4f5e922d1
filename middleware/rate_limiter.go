// middleware/rate_limiter.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter throttles per client IP. An IP that exhausts its bucket is
// blocked for blockDuration.
type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	log            logrus.FieldLogger
}

func NewRateLimiter(log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{
		ips:           make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:  20,
		blockDuration: 5 * time.Minute,
		endpointLimits: map[string]endpointLimit{
			// brute force protection
			"/api/auth/login":    {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/register": {limit: rate.Every(500 * time.Millisecond), burst: 5},
		},
		log: log,
	}
}

// SetEndpointLimit overrides the bucket for one route path.
func (r *RateLimiter) SetEndpointLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
}

// RunCleanup drops expired blocks until ctx is cancelled.
func (r *RateLimiter) RunCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.mu.Lock()
			for ip, blockUntil := range r.blockedIPs {
				if now.After(blockUntil) {
					delete(r.blockedIPs, ip)
					delete(r.ips, ip)
				}
			}
			r.mu.Unlock()
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/uploads/") {
				return next(c)
			}
			ip := c.RealIP()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if time.Now().Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, blockUntil)
				}
				delete(r.blockedIPs, ip)
				delete(r.ips, ip)
			}
			limiter := r.limiterFor(ip, c.Path())
			r.mu.Unlock()

			if !limiter.Allow() {
				blockUntil := time.Now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()

				r.log.WithFields(logrus.Fields{"ip": ip, "path": c.Path()}).Warn("Rate limit exceeded, blocking IP")
				return tooManyRequests(c, blockUntil)
			}
			return next(c)
		}
	}
}

// limiterFor must be called with r.mu held. Buckets are keyed by IP and
// route so strict endpoints do not drain the default bucket.
func (r *RateLimiter) limiterFor(ip, path string) *rate.Limiter {
	limit, burst := r.defaultLimit, r.defaultBurst
	key := ip
	if el, ok := r.endpointLimits[path]; ok {
		limit, burst = el.limit, el.burst
		key = ip + "|" + path
	}

	limiter, ok := r.ips[key]
	if !ok {
		limiter = rate.NewLimiter(limit, burst)
		r.ips[key] = limiter
	}
	return limiter
}

func tooManyRequests(c echo.Context, retryAfter time.Time) error {
	c.Response().Header().Set("Retry-After", retryAfter.UTC().Format(http.TimeFormat))
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests",
		Data:    map[string]string{"retryAfter": retryAfter.Format(time.RFC3339)},
	})
}
