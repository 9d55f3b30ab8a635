// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"net/http"
	"sync"
	"time"
)

// visitor is one client's fixed-window request counter.
type visitor struct {
	count     int
	windowEnd time.Time
}

// limiter counts requests per client IP over a fixed window. State
// belongs to the middleware instance, so separate routers never share
// budgets.
type limiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	visitors map[string]*visitor
	sweepAt  time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	return &limiter{
		max:      max,
		window:   window,
		visitors: make(map[string]*visitor),
		sweepAt:  time.Now().Add(window),
	}
}

func (l *limiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Evict expired windows once per window so the map stays bounded.
	if now.After(l.sweepAt) {
		for key, v := range l.visitors {
			if now.After(v.windowEnd) {
				delete(l.visitors, key)
			}
		}
		l.sweepAt = now.Add(l.window)
	}

	v, ok := l.visitors[ip]
	if !ok || now.After(v.windowEnd) {
		v = &visitor{windowEnd: now.Add(l.window)}
		l.visitors[ip] = v
	}

	v.count++
	return v.count <= l.max
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

// RateLimit limits each client IP to max requests per window and
// answers excess traffic with 429.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r), time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":429,"message":"Too Many Requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
