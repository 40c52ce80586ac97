package model

import "fmt"

// MatchKind identifies how a rule's pattern is compared against a
// transaction's normalized description.
type MatchKind string

// Match kind constants.
const (
	ExactMatch MatchKind = "exact_match"
	Contains   MatchKind = "contains"
	Regex      MatchKind = "regex"
)

// ParseMatchKind validates a match kind string.
func ParseMatchKind(s string) (MatchKind, error) {
	switch MatchKind(s) {
	case ExactMatch, Contains, Regex:
		return MatchKind(s), nil
	default:
		return "", fmt.Errorf("invalid rule type %q (want exact_match, contains or regex)", s)
	}
}

// Tier identifies which of the three rule sources a rule belongs to.
// Tier membership never changes for the lifetime of a rule.
type Tier string

// Tier constants, in priority order. TierUnresolved is never a rule tier;
// it only appears on outcomes that no tier resolved.
const (
	TierManual     Tier = "manual"
	TierHistory    Tier = "history"
	TierAI         Tier = "ai"
	TierUnresolved Tier = "unresolved"
)

// Tiers lists the rule tiers in fixed resolution priority order.
func Tiers() []Tier {
	return []Tier{TierManual, TierHistory, TierAI}
}

// ParseTier validates a rule tier string.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierManual, TierHistory, TierAI:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("invalid tier %q (want manual, history or ai)", s)
	}
}

// Rule is a single categorization rule. Rules are immutable after creation;
// a re-derived rule replaces its predecessor rather than mutating it.
//
// ID is assigned by the rule store at load time and equals the rule's
// priority rank across the whole store: a lower ID always wins a tie.
type Rule struct {
	Kind                MatchKind
	Tier                Tier
	Pattern             string
	Category            string
	Direction           *Direction // nil matches either direction
	MerchantName        string
	Description         string
	ExampleDescriptions []string
	Confidence          float64
	TransactionCount    int
	TotalTransactions   int
	ID                  int
}

// CategoryUnspecified is the terminal category for transactions no tier
// could resolve.
const CategoryUnspecified = "Unspecified"
