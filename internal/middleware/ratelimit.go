package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimit allows limit requests per client IP in each fixed window. State
// is in-process only, so a multi-instance deployment limits per instance.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	l := &limiter{limit: limit, per: per, seen: make(map[string]*window)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			retry, ok := l.take(clientIPForRateLimit(r), time.Now())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(retry/time.Second)+1))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type window struct {
	count int
	reset time.Time
}

type limiter struct {
	mu    sync.Mutex
	limit int
	per   time.Duration
	seen  map[string]*window
}

// take records one request for ip and reports whether it is allowed. When
// denied it returns the time left until the window resets.
func (l *limiter) take(ip string, now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.seen[ip]
	if w == nil || now.After(w.reset) {
		l.prune(now)
		w = &window{reset: now.Add(l.per)}
		l.seen[ip] = w
	}
	if w.count >= l.limit {
		return w.reset.Sub(now), false
	}
	w.count++
	return 0, true
}

// prune drops expired windows so idle clients do not accumulate. Callers hold
// the lock.
func (l *limiter) prune(now time.Time) {
	for ip, w := range l.seen {
		if now.After(w.reset) {
			delete(l.seen, ip)
		}
	}
}

func clientIPForRateLimit(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		ip := strings.TrimSpace(part)
		if ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
