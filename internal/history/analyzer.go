// Package history mines history-tier categorization rules from a ledger's
// already-categorized transactions.
package history

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/coincat/coincat/internal/ledger"
	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/normalize"
	"github.com/coincat/coincat/internal/rules"
)

// Options tunes which description groups become rules.
type Options struct {
	// MinCount is the minimum number of occurrences a normalized
	// description needs before it is considered.
	MinCount int
	// MinDominance is the minimum share of occurrences the most common
	// category must hold. Below it the description's history is too mixed
	// to generalize from.
	MinDominance float64
	// MaxExamples caps the example descriptions recorded per rule.
	MaxExamples int
}

// DefaultOptions returns the analyzer defaults.
func DefaultOptions() Options {
	return Options{
		MinCount:     3,
		MinDominance: 0.8,
		MaxExamples:  3,
	}
}

// Analyzer derives exact-match rules from categorized ledger history.
type Analyzer struct {
	logger *slog.Logger
	opts   Options
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.MinCount <= 0 {
		opts.MinCount = def.MinCount
	}
	if opts.MinDominance <= 0 || opts.MinDominance > 1 {
		opts.MinDominance = def.MinDominance
	}
	if opts.MaxExamples <= 0 {
		opts.MaxExamples = def.MaxExamples
	}
	return &Analyzer{opts: opts, logger: logger}
}

// group accumulates the history of one normalized description.
type group struct {
	categories map[string]int
	examples   []string
	total      int
}

// Analyze groups entries by normalized description and emits a rule for
// every group whose dominant category clears the occurrence and dominance
// thresholds. Output order is deterministic: sorted by pattern.
func (a *Analyzer) Analyze(entries []ledger.Entry) []rules.RuleRecord {
	groups := make(map[string]*group)

	for _, e := range entries {
		desc := normalize.Normalize(e.Description)
		if desc == "" || e.Category == "" {
			continue
		}

		g, ok := groups[desc]
		if !ok {
			g = &group{categories: make(map[string]int)}
			groups[desc] = g
		}
		g.total++
		g.categories[e.Category]++
		if len(g.examples) < a.opts.MaxExamples && !contains(g.examples, e.Description) {
			g.examples = append(g.examples, e.Description)
		}
	}

	patterns := make([]string, 0, len(groups))
	for desc := range groups {
		patterns = append(patterns, desc)
	}
	sort.Strings(patterns)

	var records []rules.RuleRecord
	for _, desc := range patterns {
		g := groups[desc]
		if g.total < a.opts.MinCount {
			continue
		}

		category, count := dominant(g.categories)
		dominance := float64(count) / float64(g.total)
		if dominance < a.opts.MinDominance {
			a.logger.Debug("skipping mixed-category description",
				"description", desc,
				"dominance", dominance)
			continue
		}

		records = append(records, rules.RuleRecord{
			RuleType:            string(model.ExactMatch),
			Pattern:             desc,
			Category:            category,
			Confidence:          dominance,
			TransactionCount:    count,
			TotalTransactions:   g.total,
			ExampleDescriptions: g.examples,
		})
	}

	a.logger.Info("history analysis complete",
		"entries", len(entries),
		"descriptions", len(groups),
		"rules", len(records))
	return records
}

// WriteTierFile writes the mined rules as the history tier, stamped with the
// generation parameters and the date range of the source entries.
func (a *Analyzer) WriteTierFile(path string, records []rules.RuleRecord, entries []ledger.Entry) error {
	from, to := dateRange(entries)

	tf := &rules.TierFile{
		Version:     rules.TierFileVersion,
		Description: "rules mined from categorized ledger history",
		Metadata: map[string]any{
			"generated_at":   time.Now().UTC().Format(time.RFC3339),
			"min_count":      a.opts.MinCount,
			"min_dominance":  a.opts.MinDominance,
			"source_entries": len(entries),
			"date_from":      from,
			"date_to":        to,
		},
		Rules: records,
	}

	if err := rules.WriteTierFile(path, tf); err != nil {
		return fmt.Errorf("failed to write history tier: %w", err)
	}
	return nil
}

// dominant returns the most frequent category; ties resolve alphabetically
// so repeated runs stay stable.
func dominant(categories map[string]int) (string, int) {
	var bestCat string
	var bestCount int
	for cat, count := range categories {
		if count > bestCount || (count == bestCount && (bestCat == "" || cat < bestCat)) {
			bestCat, bestCount = cat, count
		}
	}
	return bestCat, bestCount
}

func dateRange(entries []ledger.Entry) (string, string) {
	var from, to time.Time
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		if from.IsZero() || e.Date.Before(from) {
			from = e.Date
		}
		if to.IsZero() || e.Date.After(to) {
			to = e.Date
		}
	}
	if from.IsZero() {
		return "", ""
	}
	return from.Format("2006-01-02"), to.Format("2006-01-02")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
