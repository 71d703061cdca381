package zeroshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/seralys/inciwise/internal/common"
)

const defaultHuggingFaceModel = "facebook/bart-large-mnli"

// huggingFaceClient implements the Client interface for the Hugging Face
// zero-shot inference API. It also works against self-hosted inference
// servers that speak the same protocol via Config.Endpoint.
type huggingFaceClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
}

// newHuggingFaceClient creates a new Hugging Face inference client.
func newHuggingFaceClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = defaultHuggingFaceModel
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api-inference.huggingface.co/models/" + model
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &huggingFaceClient{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Classify sends a zero-shot classification request to the inference endpoint.
func (c *huggingFaceClient) Classify(ctx context.Context, text string, labels []string) (Classification, error) {
	requestBody := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": labels,
		},
		"options": map[string]any{
			"wait_for_model": true,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return Classification{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: request failed: %w", common.ErrClassifierUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return Classification{}, fmt.Errorf("%w (status %d): %s", common.ErrRateLimit, resp.StatusCode, string(body))
	case http.StatusServiceUnavailable:
		return Classification{}, fmt.Errorf("%w: model not ready (status %d): %s", common.ErrClassifierUnavailable, resp.StatusCode, string(body))
	default:
		return Classification{}, fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response huggingFaceResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Classification{}, fmt.Errorf("failed to parse response: %w", err)
	}

	result := Classification{
		Labels: response.Labels,
		Scores: response.Scores,
	}
	if err := result.Validate(); err != nil {
		return Classification{}, fmt.Errorf("malformed classification response: %w", err)
	}
	result.sort()

	return result, nil
}

// huggingFaceResponse represents the zero-shot inference API response structure.
type huggingFaceResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}
