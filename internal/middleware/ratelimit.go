package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/pkg/logger"
)

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 10000
	// limiterMaxClients bounds the map when every tracked client is active.
	limiterMaxClients = 2 * limiterSweepSize
)

// RateLimiter applies a token bucket per remote host. Request headers are
// client-controlled and never select the bucket.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*clientLimiter
	rate       rate.Limit
	burst      int
	maxClients int
	log        *logger.Logger
	now        func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with burst.
func NewRateLimiter(requestsPerSecond float64, burst int, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.NewDefault("ratelimit")
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*clientLimiter),
		rate:       rate.Limit(requestsPerSecond),
		burst:      burst,
		maxClients: limiterMaxClients,
		log:        log,
		now:        time.Now,
	}
}

// getLimiter returns the limiter for key. Idle entries are swept once the
// map grows past limiterSweepSize; if it is still at maxClients the least
// recently seen client is evicted.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= limiterSweepSize {
			rl.sweepLocked(now)
		}
		if len(rl.limiters) >= rl.maxClients {
			rl.evictOldestLocked()
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for k, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(rl.limiters, k)
		}
	}
}

func (rl *RateLimiter) evictOldestLocked() {
	var (
		oldestKey  string
		oldestSeen time.Time
		found      bool
	)
	for k, cl := range rl.limiters {
		if !found || cl.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen, found = k, cl.lastSeen, true
		}
	}
	if found {
		delete(rl.limiters, oldestKey)
	}
}

func (rl *RateLimiter) key(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host
}

// Handler returns the rate limiting middleware handler.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.key(r)
		if !rl.getLimiter(key).Allow() {
			rl.log.WithContext(r.Context()).
				WithField("key", key).
				WithField("path", r.URL.Path).
				WithField("method", r.Method).
				Warn("rate limit exceeded")

			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, r, svcerrors.RateLimitExceeded(int(rl.rate), "1s").
				WithDetails("burst", rl.burst))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Len reports the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
