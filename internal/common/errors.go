// Package common provides shared helpers used across the application:
// sentinel errors, retry with backoff, and logger setup.
package common

import "errors"

// Sentinel errors recognized across package boundaries.
var (
	// ErrClassifierUnavailable marks failures of the zero-shot backend
	// that callers may treat as "skip this stage" rather than fatal.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrNoCategories is returned when a rule set or classification
	// request carries no candidate categories.
	ErrNoCategories = errors.New("no categories configured")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
