package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/health-assistant/internal/config"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL    = 5 * time.Minute
	sweepEveryRequest = 1000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors keeps one token bucket per client IP.
type visitors struct {
	mu       sync.Mutex
	byIP     map[string]*visitor
	limit    rate.Limit
	burst    int
	requests int
	now      func() time.Time
}

func newVisitors(rps, burst int) *visitors {
	return &visitors{
		byIP:  make(map[string]*visitor),
		limit: rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

func (v *visitors) allow(ip string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	entry, ok := v.byIP[ip]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.byIP[ip] = entry
	}
	entry.lastSeen = now

	v.requests++
	if v.requests%sweepEveryRequest == 0 {
		v.sweep(now)
	}

	return entry.limiter.AllowN(now, 1)
}

// sweep drops clients idle longer than visitorIdleTTL. Caller holds mu.
func (v *visitors) sweep(now time.Time) {
	for ip, entry := range v.byIP {
		if now.Sub(entry.lastSeen) > visitorIdleTTL {
			delete(v.byIP, ip)
		}
	}
}

// RateLimitMiddleware applies a per-IP token bucket. RATE_LIMIT_RPS <= 0 disables it.
func RateLimitMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.RateLimitRPS <= 0 {
		return next
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}
	clients := newVisitors(cfg.RateLimitRPS, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if clients.allow(clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    "rate_limited",
				"message": "Too many requests",
			},
		})
	})
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
