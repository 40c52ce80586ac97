package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coincat/coincat/internal/cli"
	"github.com/coincat/coincat/internal/common"
	"github.com/coincat/coincat/internal/config"
	"github.com/coincat/coincat/internal/history"
)

func analyzeCmd() *cobra.Command {
	var (
		minCount     int
		minDominance float64
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Mine history-tier rules from the configured ledger",
		Long: `Reads every categorized transaction from the GnuCash book, groups them
by normalized description, and writes an exact-match rule for every
description whose bookings consistently land in one category. The result
replaces the history tier file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Ledger == "" {
				return fmt.Errorf("%w: no ledger book (set ledger.path)", common.ErrMissingConfig)
			}

			book, err := openLedger(cfg.Ledger)
			if err != nil {
				return err
			}
			defer func() { _ = book.Close() }()

			entries, err := book.Entries(cmd.Context())
			if err != nil {
				return err
			}

			analyzer := history.NewAnalyzer(history.Options{
				MinCount:     minCount,
				MinDominance: minDominance,
			}, nil)

			records := analyzer.Analyze(entries)
			fmt.Println(cli.FormatInfo(fmt.Sprintf(
				"%d ledger entries yielded %d history rules", len(entries), len(records))))

			if dryRun {
				for _, rec := range records {
					fmt.Printf("  %-40q -> %s (%.2f, %d/%d)\n",
						rec.Pattern, rec.Category, rec.Confidence,
						rec.TransactionCount, rec.TotalTransactions)
				}
				return nil
			}

			if err := analyzer.WriteTierFile(cfg.Rules.History, records, entries); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("wrote history tier to " + cfg.Rules.History))
			return nil
		},
	}

	cmd.Flags().IntVar(&minCount, "min-count", 3, "minimum occurrences before a description is considered")
	cmd.Flags().Float64Var(&minDominance, "min-dominance", 0.8, "minimum share the dominant category must hold")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print mined rules without writing the tier file")
	return cmd
}
