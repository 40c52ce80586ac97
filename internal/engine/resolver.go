// Package engine implements the core categorization engine: the
// priority-ordered tier resolver and the batch coordinator.
package engine

import (
	"context"
	"log/slog"

	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/rules"
)

// AIGate is the escalation point consulted when no rule tier resolves a
// transaction. A nil result with a nil error means the collaborator had no
// answer.
type AIGate interface {
	Resolve(ctx context.Context, normalizedDesc string, direction model.Direction) (*model.MatchResult, error)
}

// Resolver walks the rule tiers in fixed priority order and escalates full
// misses to the AI gate.
type Resolver struct {
	store   *rules.Store
	matcher *rules.Matcher
	gate    AIGate
	logger  *slog.Logger
}

// NewResolver creates a resolver over the given store. gate may be nil to
// disable AI fallback entirely.
func NewResolver(store *rules.Store, gate AIGate, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:   store,
		matcher: rules.NewMatcher(store),
		gate:    gate,
		logger:  logger,
	}
}

// Resolve categorizes one transaction. Credit-direction transactions are
// never auto-categorized: they skip every tier and the AI fallback, and
// always come back needing review. For debits, tiers are walked in the
// fixed order manual, history, ai; the first tier with a qualifying match
// decides, and a higher tier's decision is never second-guessed by a lower
// one regardless of relative confidence.
func (r *Resolver) Resolve(ctx context.Context, txn model.Transaction, threshold float64) model.CategorizationOutcome {
	if txn.Direction == model.Credit {
		return r.unresolved(txn)
	}

	for _, tier := range model.Tiers() {
		if match := r.bestInTier(tier, txn, threshold); match != nil {
			return model.CategorizationOutcome{
				Transaction: txn,
				Category:    match.Rule.Category,
				Match:       match,
				Tier:        tier,
			}
		}
	}

	if r.gate != nil {
		match, err := r.gate.Resolve(ctx, txn.Description, txn.Direction)
		if err != nil {
			// AI failures are isolated per transaction, never batch-fatal.
			r.logger.Warn("AI escalation failed",
				"transaction_id", txn.ID,
				"description", txn.Description,
				"error", err)
		} else if match != nil && match.Confidence >= threshold {
			return model.CategorizationOutcome{
				Transaction: txn,
				Category:    match.Rule.Category,
				Match:       match,
				Tier:        model.TierAI,
			}
		}
	}

	return r.unresolved(txn)
}

// bestInTier evaluates every rule in one tier and selects the qualifying
// match with the highest confidence; ties resolve to the earliest-inserted
// rule, so the first-authored rule wins.
func (r *Resolver) bestInTier(tier model.Tier, txn model.Transaction, threshold float64) *model.MatchResult {
	var best *model.MatchResult

	for _, rule := range r.store.Tier(tier) {
		result := r.matcher.Evaluate(rule, txn)
		if !result.Matched || result.Confidence < threshold {
			continue
		}
		if best == nil || result.Confidence > best.Confidence {
			best = &result
		}
	}

	return best
}

func (r *Resolver) unresolved(txn model.Transaction) model.CategorizationOutcome {
	return model.CategorizationOutcome{
		Transaction: txn,
		Category:    model.CategoryUnspecified,
		Tier:        model.TierUnresolved,
		NeedsReview: true,
	}
}
