// Package middleware holds request-level guards shared by the API routes.
package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RefreshRateLimiter throttles forced daily-selection refreshes per user.
// A forced refresh costs three sampling queries against the catalog, so
// rapid-fire refresh clicking is bounded here rather than at the store.
type RefreshRateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter

	interval time.Duration
	burst    int
}

// NewRefreshRateLimiter creates a limiter allowing one forced refresh per
// interval with the given burst per user.
func NewRefreshRateLimiter(interval time.Duration, burst int) *RefreshRateLimiter {
	return &RefreshRateLimiter{
		limits:   make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

// getLimiter gets or creates a limiter for the given user.
func (rl *RefreshRateLimiter) getLimiter(userID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[userID]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(rl.interval), rl.burst)
	rl.limits[userID] = limiter
	return limiter
}

// Allow checks if a forced refresh is allowed for the given user.
func (rl *RefreshRateLimiter) Allow(userID string) bool {
	return rl.getLimiter(userID).Allow()
}

// Wait blocks until a forced refresh is allowed for the given user.
// Returns error if the context is cancelled first.
func (rl *RefreshRateLimiter) Wait(ctx context.Context, userID string) error {
	return rl.getLimiter(userID).Wait(ctx)
}
