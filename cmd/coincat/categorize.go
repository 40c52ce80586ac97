package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/coincat/coincat/internal/cli"
	"github.com/coincat/coincat/internal/config"
	"github.com/coincat/coincat/internal/engine"
	"github.com/coincat/coincat/internal/model"
)

func categorizeCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "categorize <statement-file>",
		Short: "Categorize transactions from a QFX/OFX or CSV statement",
		Long: `Reads a bank statement, resolves every debit transaction against the
manual, history and AI rule tiers in priority order, and prints the outcome
for each transaction plus a batch summary. Learned AI rules are persisted
for future runs. Nothing is booked to a ledger; approval stays with you.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(os.Stdout)
			ctx := handler.HandleInterrupts(cmd.Context())

			txns, err := loadTransactions(ctx, args[0])
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println(cli.FormatInfo("statement contains no transactions"))
				return nil
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			categories, err := resolveCategories(ctx, cfg)
			if err != nil {
				return err
			}

			gate, err := buildGate(ctx, cfg, store, categories)
			if err != nil {
				return err
			}
			// Avoid handing the resolver a typed-nil interface.
			var aiGate engine.AIGate
			if gate != nil {
				defer gate.Close()
				aiGate = gate
			}

			resolver := engine.NewResolver(store, aiGate, nil)

			bar := progressbar.NewOptions(len(txns),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Categorizing..."),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)

			outcomes, summary := resolver.CategorizeBatch(ctx, txns, engine.BatchOptions{
				Threshold: cfg.Threshold,
				Workers:   cfg.Workers,
				OnOutcome: func(model.CategorizationOutcome) {
					_ = bar.Add(1)
				},
			})

			fmt.Println(cli.FormatTitle("Categorization results"))
			for _, o := range outcomes {
				if !showAll && !o.NeedsReview && o.Tier == model.TierManual {
					continue
				}
				fmt.Println(cli.FormatOutcome(o))
			}
			fmt.Println()
			fmt.Println(cli.FormatSummary(summary))

			if handler.WasInterrupted() {
				return fmt.Errorf("categorization interrupted")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "print every outcome, including manual-tier hits")
	return cmd
}
