package zeroshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("tryAcquire", func(t *testing.T) {
		rl := newRateLimiter(5)

		// Should succeed for first 5 attempts
		for i := 0; i < 5; i++ {
			success := rl.tryAcquire()
			assert.True(t, success, "Expected tryAcquire to succeed for attempt %d", i+1)
		}

		// 6th attempt should fail
		success := rl.tryAcquire()
		assert.False(t, success, "Expected tryAcquire to fail after tokens exhausted")
	})

	t.Run("tokens accrue over time", func(t *testing.T) {
		// 1200 requests per minute refills a token every 50ms.
		rl := newRateLimiter(1200)

		for i := 0; i < 1200; i++ {
			require.True(t, rl.tryAcquire())
		}
		assert.False(t, rl.tryAcquire())

		time.Sleep(120 * time.Millisecond)
		assert.True(t, rl.tryAcquire(), "Expected a token after the refill interval elapsed")
	})

	t.Run("wait blocks until refill", func(t *testing.T) {
		rl := newRateLimiter(1200)
		ctx := context.Background()

		for i := 0; i < 1200; i++ {
			require.NoError(t, rl.wait(ctx))
		}

		start := time.Now()
		done := make(chan bool)
		go func() {
			err := rl.wait(ctx)
			assert.NoError(t, err)
			done <- true
		}()

		select {
		case <-done:
			elapsed := time.Since(start)
			// Allow some tolerance for timing
			assert.True(t, elapsed >= 20*time.Millisecond, "Expected to wait for refill, but completed too quickly")
		case <-time.After(10 * time.Second):
			t.Fatal("Rate limiter wait timed out")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		rl := newRateLimiter(1) // Only 1 request per minute

		// Use up the token
		err := rl.wait(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error)
		go func() {
			done <- rl.wait(ctx)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		err = <-done
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter canceled")
	})

	t.Run("reset", func(t *testing.T) {
		rl := newRateLimiter(3)

		// Use up all tokens
		for i := 0; i < 3; i++ {
			success := rl.tryAcquire()
			require.True(t, success)
		}

		// Should be out of tokens
		success := rl.tryAcquire()
		assert.False(t, success)

		// Reset the limiter
		rl.reset()

		// Should have tokens again
		success = rl.tryAcquire()
		assert.True(t, success)
	})

	t.Run("default rate limit", func(t *testing.T) {
		// Test with zero rate limit (should default to 60)
		rl := newRateLimiter(0)
		assert.Equal(t, 60, rl.capacity)

		for i := 0; i < 50; i++ {
			success := rl.tryAcquire()
			require.True(t, success, "Expected default rate limit to allow many requests")
		}
	})
}
