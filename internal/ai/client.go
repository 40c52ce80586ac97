// Package ai provides the external categorization collaborator: provider
// clients behind a narrow interface, request rate limiting, and the cache
// gate that deduplicates and persists AI-derived rules.
package ai

import (
	"context"
	"time"
)

// CategorizeRequest asks a provider to categorize one normalized
// transaction description.
type CategorizeRequest struct {
	Description string
	Direction   string
	Categories  []string
}

// CategorizeResponse is a provider's categorization of one description.
type CategorizeResponse struct {
	Category     string
	MerchantName string
	Reasoning    string
	Confidence   float64
}

// Client defines the interface for AI categorization providers.
// Implementations wrap permanent failures (malformed response, no result)
// as non-retryable and transient ones (network, timeouts, server errors)
// as retryable, so the gate's retry loop can tell them apart.
type Client interface {
	Categorize(ctx context.Context, req CategorizeRequest) (CategorizeResponse, error)
}

// Config holds configuration for the AI collaborator.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
