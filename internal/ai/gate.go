package ai

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/coincat/coincat/internal/common"
	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/rules"
)

// Gate is the cache-through escalation point to the external categorization
// collaborator. It consults the AI tier of the rule store first, guarantees
// at most one in-flight external call per unique normalized description,
// and persists every successful result as a new AI-tier rule.
type Gate struct {
	store      *rules.Store
	client     Client
	limiter    *rateLimiter
	logger     *slog.Logger
	categories []string
	retryOpts  common.RetryOptions
	group      singleflight.Group
}

// NewGate creates a cache gate in front of the given provider client.
// categories is the list of valid category paths offered to the provider.
func NewGate(store *rules.Store, client Client, categories []string, cfg Config, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}

	return &Gate{
		store:      store,
		client:     client,
		categories: categories,
		limiter:    newRateLimiter(cfg.RateLimit),
		retryOpts:  retryOpts,
		logger:     logger,
	}
}

// Resolve answers a categorization miss for one normalized description.
// A nil result with a nil error means the collaborator had no answer; the
// caller treats the transaction as unresolved. Errors are likewise
// per-description: one failed call never poisons the rest of a batch.
func (g *Gate) Resolve(ctx context.Context, normalizedDesc string, direction model.Direction) (*model.MatchResult, error) {
	if rule, ok := g.store.LookupAI(normalizedDesc); ok {
		return g.matchFromRule(rule, "cached"), nil
	}

	// Concurrent lookups for one description attach to the same in-flight
	// call; every waiter observes the identical learned rule, and the rule
	// is persisted exactly once.
	v, err, _ := g.group.Do(normalizedDesc, func() (any, error) {
		return g.categorizeAndLearn(ctx, normalizedDesc, direction)
	})
	if err != nil {
		return nil, err
	}

	rule, ok := v.(model.Rule)
	if !ok {
		return nil, fmt.Errorf("unexpected gate result type %T", v)
	}
	return g.matchFromRule(rule, "learned"), nil
}

func (g *Gate) categorizeAndLearn(ctx context.Context, normalizedDesc string, direction model.Direction) (model.Rule, error) {
	// The store may have learned the key between our miss and the
	// singleflight slot opening up.
	if rule, ok := g.store.LookupAI(normalizedDesc); ok {
		return rule, nil
	}

	if err := g.limiter.wait(ctx); err != nil {
		return model.Rule{}, err
	}

	var resp CategorizeResponse
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = g.client.Categorize(ctx, CategorizeRequest{
			Description: normalizedDesc,
			Direction:   string(direction),
			Categories:  g.categories,
		})
		return callErr
	}, g.retryOpts)
	if err != nil {
		g.logger.Warn("AI categorization failed",
			"description", normalizedDesc,
			"error", err)
		return model.Rule{}, err
	}

	rule, err := g.store.AppendAIRule(rules.RuleRecord{
		RuleType:     string(model.ExactMatch),
		Pattern:      normalizedDesc,
		Category:     resp.Category,
		MerchantName: resp.MerchantName,
		Description:  resp.Reasoning,
		Confidence:   resp.Confidence,
	})
	if err != nil {
		return model.Rule{}, fmt.Errorf("failed to persist learned rule: %w", err)
	}

	g.logger.Info("learned AI rule",
		"description", normalizedDesc,
		"category", rule.Category,
		"confidence", rule.Confidence)
	return rule, nil
}

func (g *Gate) matchFromRule(rule model.Rule, origin string) *model.MatchResult {
	return &model.MatchResult{
		Rule:         &rule,
		Matched:      true,
		Confidence:   rule.Confidence,
		MerchantName: rule.MerchantName,
		Explanation:  fmt.Sprintf("ai categorization (%s): %s", origin, rule.Description),
	}
}

// Close releases the gate's rate limiter.
func (g *Gate) Close() {
	g.limiter.Close()
}
