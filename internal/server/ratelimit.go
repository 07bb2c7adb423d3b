// Implements per-client request rate limiting.

package server

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clientRate and clientBurst bound requests per client IP. The API is
	// read-heavy and cached, so bursts are cheap; the cap protects the
	// upstream Notion budget from a single noisy client.
	clientRate  = rate.Limit(10)
	clientBurst = 30

	// pruneInterval bounds how long an idle client's bucket is kept.
	pruneInterval = 10 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter manages one token bucket per client key. Idle buckets are
// pruned in-line instead of on a background goroutine, so the limiter
// needs no Close.
type rateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	rate      rate.Limit
	burst     int
	lastPrune time.Time
}

func newRateLimiter(r rate.Limit, burst int) *rateLimiter {
	return &rateLimiter{
		buckets: make(map[string]*clientBucket),
		rate:    r,
		burst:   burst,
	}
}

// allow reports whether one request for key may proceed at now, along
// with the tokens remaining afterwards.
func (l *rateLimiter) allow(key string, now time.Time) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= pruneInterval {
		l.prune(now)
		l.lastPrune = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	return allowed, remaining
}

// prune drops buckets idle long enough to be full again. Caller holds mu.
func (l *rateLimiter) prune(now time.Time) {
	stale := now.Add(-pruneInterval)
	for key, b := range l.buckets {
		if b.lastSeen.Before(stale) {
			delete(l.buckets, key)
		}
	}
}

// clientIP extracts the client address, honoring proxy headers.
// X-Forwarded-For may list several hops; the leftmost is the client.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	// IPv6 addresses arrive as "[::1]:8080".
	if strings.HasPrefix(addr, "[") {
		if host, _, ok := strings.Cut(addr, "]:"); ok {
			return host[1:]
		}
		return strings.Trim(addr, "[]")
	}
	if host, _, ok := strings.Cut(addr, ":"); ok {
		return host
	}
	return addr
}

// withRateLimit rejects requests from clients that exhausted their token
// bucket. Limit headers go on every response so clients can pace
// themselves before hitting a 429.
func withRateLimit(l *rateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining := l.allow(clientIP(r), time.Now())
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			w.Header().Set("Retry-After", "1")
			_ = writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
