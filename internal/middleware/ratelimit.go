package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorTTL = 10 * time.Minute
	// maxRetryAfter caps the Retry-After hint for very slow or refill-less limiters.
	maxRetryAfter = 3600
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter hands out one token bucket per client key.
type keyedLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func newKeyedLimiter(rps float64, burst int) *keyedLimiter {
	return &keyedLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (kl *keyedLimiter) get(key string, now time.Time) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	v, exists := kl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(kl.rps, kl.burst)}
		kl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// evict drops visitors idle for longer than visitorTTL.
func (kl *keyedLimiter) evict(now time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, v := range kl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(kl.visitors, key)
		}
	}
}

func (kl *keyedLimiter) cleanup() {
	for {
		time.Sleep(visitorTTL)
		kl.evict(time.Now())
	}
}

// RateLimit returns middleware that limits requests per client. Authenticated
// clients are keyed by token subject, anonymous ones by IP address.
// rps is the allowed requests per second, burst is the maximum burst size.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := newKeyedLimiter(rps, burst)
	go limiter.cleanup()

	retryAfter := retryAfterSeconds(rps)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.get(clientKeyFor(r), time.Now()).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds is the time until one token refills, rounded up to whole seconds.
func retryAfterSeconds(rps float64) string {
	if !(rps > 0) {
		return strconv.Itoa(maxRetryAfter)
	}
	secs := math.Ceil(1 / rps)
	if secs > maxRetryAfter {
		return strconv.Itoa(maxRetryAfter)
	}
	return strconv.Itoa(max(int(secs), 1))
}

func clientKeyFor(r *http.Request) string {
	if name, ok := ClientFromContext(r.Context()); ok {
		return "client:" + name
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
