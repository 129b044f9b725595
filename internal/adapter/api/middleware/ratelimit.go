package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/adapter/pii"
)

// maxTrackedSenders bounds the limiter map. When the cap is hit the map is
// reset wholesale rather than evicted piecemeal.
const maxTrackedSenders = 10000

// RateLimiter enforces a per-sender token bucket on inbound posts.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	m        *metrics.PipelineMetrics
	logger   *slog.Logger
}

// NewRateLimiter allows perMinute sustained requests per sender with the
// given burst on top.
func NewRateLimiter(perMinute, burst int, m *metrics.PipelineMetrics, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		m:        m,
		logger:   logger,
	}
}

// Middleware keys the bucket on the form's From field, falling back to the
// remote address for payloads without one.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sender := senderKey(r)
		if !rl.limiterFor(sender).Allow() {
			rl.m.RejectedTotal.WithLabelValues("rate_limit").Inc()
			rl.logger.Warn("rate limit exceeded", "sender", pii.MaskSender(sender), "path", r.URL.Path)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiterFor(sender string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if lim, ok := rl.limiters[sender]; ok {
		return lim
	}
	if len(rl.limiters) >= maxTrackedSenders {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[sender] = lim
	return lim
}

func senderKey(r *http.Request) string {
	if from := r.PostFormValue("From"); from != "" {
		return from
	}
	if from := r.PostFormValue("from"); from != "" {
		return from
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
