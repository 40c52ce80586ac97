package model

// MatchResult is the outcome of evaluating one rule against one transaction.
type MatchResult struct {
	Rule         *Rule
	Explanation  string
	MerchantName string
	Confidence   float64
	Matched      bool
}

// CategorizationOutcome is the terminal result of resolving one transaction.
// Tier is TierUnresolved when no tier produced a qualifying match; that is a
// legitimate outcome, not an error.
type CategorizationOutcome struct {
	Transaction Transaction
	Category    string
	Match       *MatchResult
	Tier        Tier
	NeedsReview bool
}

// BatchSummary aggregates the outcomes of one batch run.
type BatchSummary struct {
	Total           int
	AutoCategorized int
	NeedsReview     int
}

// Coverage returns the auto-categorized share of the batch, 0 for an empty
// batch.
func (s BatchSummary) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.AutoCategorized) / float64(s.Total)
}
