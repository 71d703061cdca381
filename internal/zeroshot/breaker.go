package zeroshot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	breakerMinRequests  = 3
	breakerFailureRatio = 0.6
	breakerOpenTimeout  = 30 * time.Second
)

// newBreaker creates the circuit breaker guarding the inference endpoint.
// Context cancellation is not counted as an endpoint failure.
func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker[Classification] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("classifier circuit breaker state change",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return gobreaker.NewCircuitBreaker[Classification](settings)
}

// isCircuitOpen reports whether err came from an open circuit breaker.
func isCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
