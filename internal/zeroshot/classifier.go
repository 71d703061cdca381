package zeroshot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seralys/inciwise/internal/common"
	"github.com/sony/gobreaker/v2"
)

// Classifier scores product text against category labels through a
// zero-shot backend, with caching, rate limiting, retries, and circuit
// breaking layered around the raw client.
type Classifier struct {
	client      Client
	cache       *responseCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	breaker     *gobreaker.CircuitBreaker[Classification]
	retryOpts   common.RetryOptions
}

// Config holds configuration for the zero-shot classifier.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	Endpoint   string
	MaxRetries int
	RetryDelay time.Duration
	CacheTTL   time.Duration
	Timeout    time.Duration
	RateLimit  int
}

// New creates a classifier for the configured provider. Provider "none"
// (or empty) returns a nil classifier, which disables NLP classification.
func New(cfg Config, logger *slog.Logger) (*Classifier, error) {
	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "huggingface":
		client, err = newHuggingFaceClient(cfg)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create classifier client: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Classifier{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		breaker:     newBreaker("zeroshot", logger),
	}, nil
}

// Classify scores text against the candidate labels. Identical requests
// are served from cache for the configured TTL. An open circuit breaker
// reports the endpoint as unavailable rather than attempting the call.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string) (Classification, error) {
	if len(labels) == 0 {
		return Classification{}, common.ErrNoCategories
	}

	key := cacheKey(text, labels)
	if cached, found := c.cache.get(key); found {
		c.logger.Debug("classification cache hit", "text", text)
		return cached, nil
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return Classification{}, fmt.Errorf("rate limit error: %w", err)
	}

	result, err := c.breaker.Execute(func() (Classification, error) {
		var resp Classification

		retryErr := common.WithRetry(ctx, func() error {
			c.logger.Debug("attempting zero-shot classification",
				"text", text,
				"labels", len(labels))

			classification, classifyErr := c.client.Classify(ctx, text, labels)
			if classifyErr != nil {
				c.logger.Warn("zero-shot classification attempt failed",
					"error", classifyErr,
					"text", text)
				return &common.RetryableError{Err: classifyErr, Retryable: true}
			}

			resp = classification
			return nil
		}, c.retryOpts)

		return resp, retryErr
	})
	if err != nil {
		if isCircuitOpen(err) {
			return Classification{}, fmt.Errorf("%w: circuit breaker open", common.ErrClassifierUnavailable)
		}
		return Classification{}, fmt.Errorf("zero-shot classification failed: %w", err)
	}

	c.cache.set(key, result)

	top, score := result.Top()
	c.logger.Debug("text classified",
		"text", text,
		"top_label", top,
		"top_score", score)

	return result, nil
}

// Close stops background goroutines and cleans up resources.
func (c *Classifier) Close() error {
	if c.cache != nil {
		c.cache.Close()
	}
	return nil
}
