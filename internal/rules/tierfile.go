// Package rules implements the three-tier categorization rule store: tier
// file serialization, load-time validation, the priority-ordered view, and
// the matcher that evaluates rules against transactions.
package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coincat/coincat/internal/model"
)

// TierFileVersion is the tier file format version this build reads and writes.
const TierFileVersion = "1.0"

// TierFile is the on-disk representation of one rule tier. The order of the
// Rules list is significant: it is the tie-break order within the tier.
type TierFile struct {
	Metadata    map[string]any `yaml:"metadata,omitempty"`
	Version     string         `yaml:"version"`
	Description string         `yaml:"description,omitempty"`
	Rules       []RuleRecord   `yaml:"rules"`
}

// RuleRecord is the wire form of a single rule.
type RuleRecord struct {
	RuleType            string   `yaml:"rule_type"`
	Pattern             string   `yaml:"pattern"`
	Category            string   `yaml:"category"`
	Direction           string   `yaml:"direction,omitempty"`
	MerchantName        string   `yaml:"merchant_name,omitempty"`
	Description         string   `yaml:"description,omitempty"`
	ExampleDescriptions []string `yaml:"example_descriptions,omitempty"`
	Confidence          float64  `yaml:"confidence"`
	TransactionCount    int      `yaml:"transaction_count,omitempty"`
	TotalTransactions   int      `yaml:"total_transactions,omitempty"`
}

// RecordFromRule converts a rule back to its wire form.
func RecordFromRule(r model.Rule) RuleRecord {
	rec := RuleRecord{
		RuleType:            string(r.Kind),
		Pattern:             r.Pattern,
		Category:            r.Category,
		MerchantName:        r.MerchantName,
		Description:         r.Description,
		Confidence:          r.Confidence,
		TransactionCount:    r.TransactionCount,
		TotalTransactions:   r.TotalTransactions,
		ExampleDescriptions: r.ExampleDescriptions,
	}
	if r.Direction != nil {
		rec.Direction = string(*r.Direction)
	}
	return rec
}

// ReadTierFile loads a tier file from disk.
func ReadTierFile(path string) (*TierFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier file %s: %w", path, err)
	}

	var tf TierFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse tier file %s: %w", path, err)
	}
	if tf.Version == "" {
		tf.Version = TierFileVersion
	}
	return &tf, nil
}

// WriteTierFile writes a tier file atomically: the content lands in a
// temporary file first and replaces the target with a rename, so a crashed
// write never leaves a half-serialized store behind.
func WriteTierFile(path string, tf *TierFile) error {
	if tf.Version == "" {
		tf.Version = TierFileVersion
	}

	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("failed to marshal tier file: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write tier file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close tier file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace tier file %s: %w", path, err)
	}
	return nil
}
