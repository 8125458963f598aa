package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/folio/internal/utils"
)

// MsgTooManyRequests is returned once a visitor's bucket is empty.
const MsgTooManyRequests = "Too many requests. Please try again later."

// RateLimitConfig is a per-IP token bucket: Burst requests at once, then
// RefillPerIPPerMin per minute.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // forces an early sweep when reached; 0 = unbounded
	SweepInterval     time.Duration // default 1m
	IdleTTL           time.Duration // default 15m
	TrustProxy        bool          // resolve IP from proxy headers when true
	OnLimit           func(r *http.Request)
}

type visitor struct {
	tokens   float64
	refilled time.Time
}

// decision is the outcome of one take.
type decision struct {
	allowed   bool
	remaining int
	retry     time.Duration
}

type limiter struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64
	now      func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg.Burst = max(cfg.Burst, 1)
	cfg.RefillPerIPPerMin = max(cfg.RefillPerIPPerMin, 1)
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &limiter{
		cfg:      cfg,
		perSec:   float64(cfg.RefillPerIPPerMin) / 60,
		capacity: float64(cfg.Burst),
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// take spends one token from key's bucket when one is available.
func (l *limiter) take(key string) decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval ||
		(l.cfg.MaxEntries > 0 && len(l.visitors) >= l.cfg.MaxEntries) {
		l.sweep(now)
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{tokens: l.capacity, refilled: now}
		l.visitors[key] = v
	}
	if elapsed := now.Sub(v.refilled).Seconds(); elapsed > 0 {
		v.tokens = math.Min(l.capacity, v.tokens+elapsed*l.perSec)
		v.refilled = now
	}

	if v.tokens < 1 {
		wait := math.Ceil((1 - v.tokens) / l.perSec)
		return decision{retry: time.Duration(max(wait, 1)) * time.Second}
	}
	v.tokens--
	return decision{allowed: true, remaining: int(v.tokens)}
}

// sweep drops buckets untouched for longer than IdleTTL.
func (l *limiter) sweep(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.refilled) > l.cfg.IdleTTL {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}

// RateLimit limits requests per client IP. Each call owns its buckets, so
// routes sharing a limit must share the returned middleware.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return newLimiter(cfg).middleware
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(l.cfg.Burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := l.take(utils.ClientIP(r, l.cfg.TrustProxy))

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		if !d.allowed {
			if l.cfg.OnLimit != nil {
				l.cfg.OnLimit(r)
			}
			h.Set("Retry-After", strconv.Itoa(int(d.retry/time.Second)))
			reject(w, http.StatusTooManyRequests, MsgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
