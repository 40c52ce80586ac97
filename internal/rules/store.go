package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/normalize"
)

// RuleError identifies the offending rule when a tier fails to load.
// Any malformed rule fails the whole store load; there is no silent repair.
type RuleError struct {
	Err     error
	Tier    model.Tier
	Pattern string
	Index   int
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s tier, rule %d (pattern %q): %v", e.Tier, e.Index, e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Paths locates the three tier files. A missing file is an empty tier.
type Paths struct {
	Manual  string
	History string
	AI      string
}

// Store holds the three rule tiers and exposes a single priority-ordered
// view: manual first, then history, then AI; insertion order within a tier
// is the tie-break order. The manual and history tiers are read-only for
// the store's lifetime; the AI tier also accepts guarded appends.
type Store struct {
	tiers    map[model.Tier][]model.Rule
	compiled map[int]*regexp.Regexp
	aiIndex  map[string]int
	aiFile   *TierFile
	logger   *slog.Logger
	aiPath   string
	nextID   int
	mu       sync.RWMutex
}

// Open loads all three tiers, validating and compiling every rule up front.
// A malformed rule record, an uncompilable regex or a duplicate pattern
// within a tier fails the load immediately.
func Open(paths Paths, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		tiers:    make(map[model.Tier][]model.Rule),
		compiled: make(map[int]*regexp.Regexp),
		aiIndex:  make(map[string]int),
		aiPath:   paths.AI,
		logger:   logger,
	}

	tierPaths := map[model.Tier]string{
		model.TierManual:  paths.Manual,
		model.TierHistory: paths.History,
		model.TierAI:      paths.AI,
	}

	for _, tier := range model.Tiers() {
		tf, err := s.loadTier(tierPaths[tier], tier)
		if err != nil {
			return nil, err
		}
		if tier == model.TierAI {
			s.aiFile = tf
		}
	}

	logger.Debug("rule store loaded",
		"manual", len(s.tiers[model.TierManual]),
		"history", len(s.tiers[model.TierHistory]),
		"ai", len(s.tiers[model.TierAI]))
	return s, nil
}

func (s *Store) loadTier(path string, tier model.Tier) (*TierFile, error) {
	if path == "" {
		s.tiers[tier] = nil
		return &TierFile{Version: TierFileVersion}, nil
	}

	tf, err := ReadTierFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("tier file not found, starting empty", "tier", tier, "path", path)
			s.tiers[tier] = nil
			return &TierFile{Version: TierFileVersion}, nil
		}
		return nil, err
	}

	seen := make(map[string]struct{}, len(tf.Rules))
	tierRules := make([]model.Rule, 0, len(tf.Rules))

	for i, rec := range tf.Rules {
		rule, err := s.buildRule(rec, tier)
		if err != nil {
			return nil, &RuleError{Tier: tier, Index: i, Pattern: rec.Pattern, Err: err}
		}

		key := string(rule.Kind) + "\x00" + rule.Pattern
		if _, dup := seen[key]; dup {
			return nil, &RuleError{Tier: tier, Index: i, Pattern: rec.Pattern, Err: fmt.Errorf("duplicate %s pattern in tier", rule.Kind)}
		}
		seen[key] = struct{}{}

		tierRules = append(tierRules, rule)
		if tier == model.TierAI {
			s.aiIndex[rule.Pattern] = len(tierRules) - 1
		}
	}

	s.tiers[tier] = tierRules
	return tf, nil
}

// buildRule validates one record and assigns its store-wide ID. Exact
// patterns are normalized here so they stay comparable with normalized
// transaction descriptions; contains patterns are lowercased; regex
// patterns are compiled once for the store's lifetime.
func (s *Store) buildRule(rec RuleRecord, tier model.Tier) (model.Rule, error) {
	kind, err := model.ParseMatchKind(rec.RuleType)
	if err != nil {
		return model.Rule{}, err
	}

	if strings.TrimSpace(rec.Pattern) == "" {
		return model.Rule{}, fmt.Errorf("empty pattern")
	}
	if strings.TrimSpace(rec.Category) == "" {
		return model.Rule{}, fmt.Errorf("empty category")
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		return model.Rule{}, fmt.Errorf("confidence %v outside [0,1]", rec.Confidence)
	}

	var direction *model.Direction
	if rec.Direction != "" {
		d, err := model.ParseDirection(rec.Direction)
		if err != nil {
			return model.Rule{}, err
		}
		direction = &d
	}

	rule := model.Rule{
		ID:                  s.nextID,
		Kind:                kind,
		Tier:                tier,
		Pattern:             rec.Pattern,
		Category:            rec.Category,
		Direction:           direction,
		MerchantName:        rec.MerchantName,
		Description:         rec.Description,
		Confidence:          rec.Confidence,
		TransactionCount:    rec.TransactionCount,
		TotalTransactions:   rec.TotalTransactions,
		ExampleDescriptions: rec.ExampleDescriptions,
	}

	switch kind {
	case model.ExactMatch:
		rule.Pattern = normalize.Normalize(rec.Pattern)
	case model.Contains:
		rule.Pattern = strings.ToLower(rec.Pattern)
	case model.Regex:
		re, err := regexp.Compile(rec.Pattern)
		if err != nil {
			return model.Rule{}, fmt.Errorf("invalid regex: %w", err)
		}
		s.compiled[rule.ID] = re
	}

	s.nextID++
	return rule, nil
}

// Rules returns the priority-ordered view across all tiers.
func (s *Store) Rules() []model.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Rule, 0, len(s.tiers[model.TierManual])+len(s.tiers[model.TierHistory])+len(s.tiers[model.TierAI]))
	for _, tier := range model.Tiers() {
		out = append(out, s.tiers[tier]...)
	}
	return out
}

// Tier returns a snapshot of one tier in insertion order.
func (s *Store) Tier(tier model.Tier) []model.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Rule, len(s.tiers[tier]))
	copy(out, s.tiers[tier])
	return out
}

// Counts reports the number of rules per tier.
func (s *Store) Counts() map[model.Tier]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Tier]int, 3)
	for _, tier := range model.Tiers() {
		counts[tier] = len(s.tiers[tier])
	}
	return counts
}

// Regexp returns the pattern compiled at load time for a regex rule.
func (s *Store) Regexp(id int) *regexp.Regexp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compiled[id]
}

// LookupAI finds the AI-tier rule keyed by a normalized description. The AI
// tier is generated one rule per unique description, so exact equality is
// the whole lookup.
func (s *Store) LookupAI(normalizedDesc string) (model.Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.aiIndex[normalizedDesc]
	if !ok {
		return model.Rule{}, false
	}
	return s.tiers[model.TierAI][idx], true
}

// AppendAIRule appends a newly learned rule to the AI tier and persists the
// tier file. The append and the on-disk update are serialized under one
// lock so concurrent appends from different keys cannot interleave. If a
// rule for the same pattern already exists the existing rule is returned
// unchanged.
func (s *Store) AppendAIRule(rec RuleRecord) (model.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind, err := model.ParseMatchKind(rec.RuleType)
	if err != nil || kind != model.ExactMatch {
		return model.Rule{}, fmt.Errorf("AI tier only accepts exact_match rules, got %q", rec.RuleType)
	}

	if idx, ok := s.aiIndex[rec.Pattern]; ok {
		return s.tiers[model.TierAI][idx], nil
	}

	rule, err := s.buildRule(rec, model.TierAI)
	if err != nil {
		return model.Rule{}, &RuleError{Tier: model.TierAI, Index: len(s.tiers[model.TierAI]), Pattern: rec.Pattern, Err: err}
	}

	s.tiers[model.TierAI] = append(s.tiers[model.TierAI], rule)
	s.aiIndex[rule.Pattern] = len(s.tiers[model.TierAI]) - 1
	s.aiFile.Rules = append(s.aiFile.Rules, RecordFromRule(rule))

	if s.aiPath != "" {
		if err := WriteTierFile(s.aiPath, s.aiFile); err != nil {
			return model.Rule{}, err
		}
	}

	s.logger.Debug("AI rule learned",
		"pattern", rule.Pattern,
		"category", rule.Category,
		"confidence", rule.Confidence)
	return rule, nil
}
