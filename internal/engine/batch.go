package engine

import (
	"context"
	"sync"

	"github.com/coincat/coincat/internal/model"
)

// BatchOptions configures a batch run.
type BatchOptions struct {
	// OnOutcome, when set, is invoked as each outcome is produced. It may
	// be called from multiple goroutines but never concurrently.
	OnOutcome func(model.CategorizationOutcome)
	// Threshold is the minimum confidence for auto-categorization.
	Threshold float64
	// Workers bounds concurrent resolution; AI escalations inside the pool
	// are additionally deduplicated and rate limited by the gate.
	Workers int
}

// DefaultBatchOptions returns sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Threshold: 0.3,
		Workers:   4,
	}
}

// CategorizeBatch resolves a transaction set through a bounded worker pool.
// Outcome order always matches input order. The summary counts
// auto-categorized and needs-review outcomes and derives batch coverage.
// Auto-apply is not decided here; that is an external approval step.
func (r *Resolver) CategorizeBatch(ctx context.Context, txns []model.Transaction, opts BatchOptions) ([]model.CategorizationOutcome, model.BatchSummary) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultBatchOptions().Workers
	}
	if workers > len(txns) {
		workers = len(txns)
	}

	outcomes := make([]model.CategorizationOutcome, len(txns))
	jobs := make(chan int)

	var notifyMu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcome := r.Resolve(ctx, txns[i], opts.Threshold)
				outcomes[i] = outcome
				if opts.OnOutcome != nil {
					notifyMu.Lock()
					opts.OnOutcome(outcome)
					notifyMu.Unlock()
				}
			}
		}()
	}

dispatch:
	for i := range txns {
		select {
		case <-ctx.Done():
			// Remaining transactions fall through as unresolved.
			for j := i; j < len(txns); j++ {
				outcomes[j] = r.unresolved(txns[j])
			}
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes, Summarize(outcomes)
}

// Summarize aggregates outcome counts for one batch.
func Summarize(outcomes []model.CategorizationOutcome) model.BatchSummary {
	summary := model.BatchSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.NeedsReview {
			summary.NeedsReview++
		} else {
			summary.AutoCategorized++
		}
	}
	return summary
}
