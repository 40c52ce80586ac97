package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/coincat/coincat/internal/model"
)

func TestFormatOutcome(t *testing.T) {
	txn := model.NewTransaction("t1", time.Now(), "STARBUCKS 12345", decimal.NewFromFloat(6.75), model.Debit, "checking", "")

	resolved := model.CategorizationOutcome{
		Transaction: txn,
		Category:    "Expenses:Dining",
		Tier:        model.TierManual,
		Match:       &model.MatchResult{Matched: true, Confidence: 0.95},
	}
	line := FormatOutcome(resolved)
	assert.Contains(t, line, "STARBUCKS 12345")
	assert.Contains(t, line, "Expenses:Dining")
	assert.Contains(t, line, "0.95")

	unresolved := model.CategorizationOutcome{
		Transaction: txn,
		Category:    model.CategoryUnspecified,
		Tier:        model.TierUnresolved,
		NeedsReview: true,
	}
	line = FormatOutcome(unresolved)
	assert.Contains(t, line, model.CategoryUnspecified)
	assert.Contains(t, line, "unresolved")
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(model.BatchSummary{Total: 10, AutoCategorized: 8, NeedsReview: 2})
	assert.Contains(t, out, "auto-categorized: 8")
	assert.Contains(t, out, "needs review:     2")
	assert.Contains(t, out, "80.0%")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 50)
	got := truncate(long, 40)
	assert.Equal(t, 40, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
