package zeroshot

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter implements a token bucket limiter for inference requests.
// Tokens accrue lazily based on elapsed time rather than via a background
// goroutine, so an idle limiter costs nothing.
type rateLimiter struct {
	lastRefill time.Time
	interval   time.Duration
	tokens     int
	capacity   int
	mu         sync.Mutex
}

// newRateLimiter creates a new rate limiter with the specified requests per minute.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60 // Default to 60 requests per minute
	}

	return &rateLimiter{
		tokens:     requestsPerMinute,
		capacity:   requestsPerMinute,
		interval:   time.Minute / time.Duration(requestsPerMinute),
		lastRefill: time.Now(),
	}
}

// wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-ticker.C:
			// Try again
		}
	}
}

// tryAcquire attempts to acquire a token without blocking.
func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill(time.Now())
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// refill credits tokens accrued since the last refill. Callers must hold mu.
func (rl *rateLimiter) refill(now time.Time) {
	elapsed := now.Sub(rl.lastRefill)
	if elapsed < rl.interval {
		return
	}

	accrued := int(elapsed / rl.interval)
	rl.tokens += accrued
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.lastRefill = rl.lastRefill.Add(time.Duration(accrued) * rl.interval)
}

// reset restores the rate limiter to full capacity.
func (rl *rateLimiter) reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = rl.capacity
	rl.lastRefill = time.Now()
}
