package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-IP rate limiting
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewRateLimiter creates a rate limiter allowing r requests per second with
// bursts of b per client. m may be nil.
func NewRateLimiter(r float64, b int, m *metrics.Metrics) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(r),
		burst:    b,
		metrics:  m,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.limiters[ip]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = rl.now()

	return cl.limiter
}

// Limit is a middleware that enforces rate limiting per IP
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			if rl.metrics != nil {
				rl.metrics.RateLimitHits.Inc()
			}
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. Proxy headers are resolved
// earlier by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CleanupLimiters removes limiters idle for longer than maxIdle.
func (rl *RateLimiter) CleanupLimiters(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	for ip, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
		}
	}
}

// RunCleanup calls CleanupLimiters every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(interval)
		}
	}
}
