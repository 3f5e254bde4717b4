package restapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"waypoint.uwtransit.org/internal/clock"
)

// rateLimitClient tracks one caller's limiter and last activity so
// idle entries can be evicted.
type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen int64 // Unix nanoseconds
}

// RateLimitMiddleware provides per-client-address rate limiting.
type RateLimitMiddleware struct {
	mu        sync.Mutex
	limiters  map[string]*rateLimitClient
	rateLimit rate.Limit
	burstSize int
	clock     clock.Clock

	cleanupTick *time.Ticker
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewRateLimitMiddleware allows ratePerInterval requests per interval
// per client. A non-positive rate disables limiting.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration, clk clock.Clock) *RateLimitMiddleware {
	limit := rate.Inf
	if ratePerInterval > 0 {
		limit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*rateLimitClient),
		rateLimit:   limit,
		burstSize:   maxBurst(ratePerInterval),
		clock:       clk,
		cleanupTick: time.NewTicker(5 * time.Minute),
		stopChan:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func maxBurst(ratePerInterval int) int {
	if ratePerInterval < 1 {
		return 1
	}
	return ratePerInterval
}

// Handler wraps next with the limiter.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"code":429,"text":"rate limit exceeded","version":2}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the cleanup goroutine.
func (rl *RateLimitMiddleware) Shutdown() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
		rl.cleanupTick.Stop()
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimitMiddleware) allow(key string) bool {
	rl.mu.Lock()
	client, ok := rl.limiters[key]
	if !ok {
		client = &rateLimitClient{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[key] = client
	}
	client.lastSeen = rl.clock.Now().UnixNano()
	rl.mu.Unlock()

	return client.limiter.Allow()
}

func (rl *RateLimitMiddleware) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTick.C:
			cutoff := rl.clock.Now().Add(-10 * time.Minute).UnixNano()
			rl.mu.Lock()
			for key, client := range rl.limiters {
				if client.lastSeen < cutoff {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopChan:
			return
		}
	}
}
