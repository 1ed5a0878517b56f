package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps     float64
	burst   int
	clients map[string]*rate.Limiter
	mu      sync.RWMutex
}

// NewRateLimiter returns nil when rps is zero, which disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	return &RateLimiter{
		rps:     rps,
		burst:   max(burst, 1),
		clients: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.clients[ip]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists = rl.clients[ip]; !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.rps), rl.burst)
		rl.clients[ip] = limiter
	}
	return limiter
}

// Cleanup drops idle clients every interval until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, limiter := range rl.clients {
				if limiter.TokensAt(now) >= float64(rl.burst) {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.getLimiter(ip).Allow() {
			slog.Warn("rate limit exceeded",
				"middleware", "rate_limit",
				"client_ip", ip,
				"path", r.URL.Path,
				"requests_per_second", rl.rps,
				"burst_size", rl.burst,
			)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
