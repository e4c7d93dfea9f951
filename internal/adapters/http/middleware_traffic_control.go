package httpadapter

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware enforces a per-client request budget over a
// sliding window. Clients are keyed by user id when present, remote
// host otherwise.
func rateLimitMiddleware(next http.Handler, requests int, window time.Duration) http.Handler {
	if window <= 0 {
		window = time.Minute
	}
	limiters := &clientLimiters{
		perSecond: float64(requests) / window.Seconds(),
		burst:     requests,
		byClient:  make(map[string]*rate.Limiter),
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := limiters.get(clientKey(r))
		if !limiter.Allow() {
			// Seconds until one token refills, rounded up.
			retryAfter := int(1 / limiters.perSecond)
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded, slow down",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type clientLimiters struct {
	perSecond float64
	burst     int

	mu       sync.Mutex
	byClient map[string]*rate.Limiter
}

func (l *clientLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.byClient[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.perSecond), l.burst)
		l.byClient[key] = limiter
	}
	return limiter
}

func clientKey(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get(userIDHeader)); userID != "" {
		return "user:" + userID
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return "addr:" + host
	}
	return "addr:" + r.RemoteAddr
}

// backpressureMiddleware caps concurrent in-flight requests. A request
// that cannot acquire a slot within wait is shed with 503.
func backpressureMiddleware(next http.Handler, maxInFlight int, wait time.Duration) http.Handler {
	slots := make(chan struct{}, maxInFlight)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
			next.ServeHTTP(w, r)
		case <-timer.C:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "server overloaded, try again later",
			})
		case <-r.Context().Done():
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "request cancelled while queued",
			})
		}
	})
}
