package main

import (
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/seralys/inciwise/internal/engine"
	"github.com/seralys/inciwise/internal/zeroshot"
	"github.com/spf13/viper"
)

// createClassifier creates a zero-shot classifier based on configuration.
// Provider "none" disables the NLP stage and returns a nil Classifier,
// which the engine treats as "stage not configured".
func createClassifier() (engine.Classifier, error) {
	provider := viper.GetString("classifier.provider")
	if provider == "" {
		provider = "huggingface" // default provider
	}

	// Build config from viper settings
	config := zeroshot.Config{
		Provider:   provider,
		Model:      viper.GetString("classifier.model"),
		Endpoint:   viper.GetString("classifier.endpoint"),
		MaxRetries: viper.GetInt("classifier.max_retries"),
		RetryDelay: viper.GetDuration("classifier.retry_delay"),
		CacheTTL:   viper.GetDuration("classifier.cache_ttl"),
		Timeout:    viper.GetDuration("classifier.timeout"),
		RateLimit:  viper.GetInt("classifier.rate_limit"),
	}

	// Set defaults if not specified
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 24 * time.Hour
	}
	if config.RateLimit == 0 {
		config.RateLimit = 60 // requests per minute
	}

	// API key is optional for the Hugging Face inference API; anonymous
	// requests are accepted at a lower rate limit.
	apiKey := viper.GetString("classifier.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("HUGGINGFACE_API_KEY")
	}
	config.APIKey = apiKey

	classifier, err := zeroshot.New(config, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	if classifier == nil {
		// Avoid wrapping a typed nil in the interface
		return nil, nil
	}

	return classifier, nil
}
