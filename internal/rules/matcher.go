package rules

import (
	"fmt"
	"strings"

	"github.com/coincat/coincat/internal/model"
)

// Matcher evaluates individual rules against transactions. Evaluation is
// pure: a well-formed rule against any transaction always yields a
// deterministic matched or unmatched result.
type Matcher struct {
	store *Store
}

// NewMatcher creates a matcher backed by the store's load-time compiled
// patterns.
func NewMatcher(store *Store) *Matcher {
	return &Matcher{store: store}
}

// Evaluate checks one rule against one transaction. The direction filter is
// a hard gate: a mismatch yields a non-matching result with no confidence
// contribution. On a match, the returned confidence is the rule's stored
// confidence and the explanation names the rule kind and the matched span
// or pattern.
func (m *Matcher) Evaluate(rule model.Rule, txn model.Transaction) model.MatchResult {
	if rule.Direction != nil && *rule.Direction != txn.Direction {
		return model.MatchResult{
			Rule:        &rule,
			Explanation: fmt.Sprintf("direction filter: rule wants %s, transaction is %s", *rule.Direction, txn.Direction),
		}
	}

	desc := txn.Description

	switch rule.Kind {
	case model.ExactMatch:
		if desc == rule.Pattern {
			return m.matched(rule, fmt.Sprintf("exact_match on %q", rule.Pattern))
		}

	case model.Contains:
		if strings.Contains(desc, rule.Pattern) {
			return m.matched(rule, fmt.Sprintf("contains %q in %q", rule.Pattern, desc))
		}

	case model.Regex:
		re := m.store.Regexp(rule.ID)
		if re == nil {
			// Unreachable for a store-loaded rule; patterns compile at load.
			break
		}
		if span := re.FindString(desc); span != "" || re.MatchString(desc) {
			return m.matched(rule, fmt.Sprintf("regex %q matched %q", rule.Pattern, span))
		}
	}

	return model.MatchResult{
		Rule:        &rule,
		Explanation: fmt.Sprintf("%s %q did not match %q", rule.Kind, rule.Pattern, desc),
	}
}

func (m *Matcher) matched(rule model.Rule, explanation string) model.MatchResult {
	return model.MatchResult{
		Rule:         &rule,
		Matched:      true,
		Confidence:   rule.Confidence,
		MerchantName: rule.MerchantName,
		Explanation:  explanation,
	}
}
