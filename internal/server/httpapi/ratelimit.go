package httpapi

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/philharmonia/harmony/internal/netx"
)

const rateLimitEntryTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterMap struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterMap(requestsPerMinute int) *rateLimiterMap {
	return &rateLimiterMap{
		limiters:  make(map[string]*ipLimiter, 64),
		rps:       rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:     requestsPerMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// getLimiter returns the limiter for ip. Idle entries are swept inline.
func (rl *rateLimiterMap) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rateLimitEntryTTL {
		for k, e := range rl.limiters {
			if now.Sub(e.lastSeen) > rateLimitEntryTTL {
				delete(rl.limiters, k)
			}
		}
		rl.lastSweep = now
	}

	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

func (s *Server) rateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	limiters := newRateLimiterMap(requestsPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := netx.ClientIP(r, s.cfg.Profile.TrustForwardedProto)
			if !limiters.getLimiter(ip).Allow() {
				writeText(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
