package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"ndoors/pkg/requestcontext"
)

// slidingWindow tracks request timestamps per key. The sliding window
// avoids the burst-at-the-boundary problem of fixed counters.
type slidingWindow struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	buckets   map[string][]time.Time
	lastSweep time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		window:  window,
		limit:   limit,
		buckets: make(map[string][]time.Time),
	}
}

// allow records one request for key and reports whether it fits the window.
func (s *slidingWindow) allow(key string, now time.Time) (allowed bool, retryAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	s.sweep(cutoff, now)

	kept := s.buckets[key][:0]
	for _, ts := range s.buckets[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= s.limit {
		s.buckets[key] = kept
		return false, kept[0].Add(s.window).Sub(now)
	}

	s.buckets[key] = append(kept, now)
	return true, 0
}

// sweep drops keys whose every timestamp has aged out, at most once per
// window, so one-off clients do not accumulate in the map forever. Caller
// holds the lock.
func (s *slidingWindow) sweep(cutoff, now time.Time) {
	if now.Sub(s.lastSweep) < s.window {
		return
	}
	s.lastSweep = now
	for key, timestamps := range s.buckets {
		idle := true
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(s.buckets, key)
		}
	}
}

// RateLimit caps requests per client IP. The public confirm and submission
// routes carry unauthenticated capability tokens, so this is the only guard
// against someone trying to enumerate them.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	sw := newSlidingWindow(limit, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := requestcontext.ClientIP(ctx)
			if key == "" {
				key = r.RemoteAddr
			}

			allowed, retryAfter := sw.allow(key, time.Now())
			if !allowed {
				seconds := int(retryAfter.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","message":"too many requests, slow down"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
