package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/coincat/coincat/internal/cli"
	"github.com/coincat/coincat/internal/config"
	"github.com/coincat/coincat/internal/engine"
	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/normalize"
	"github.com/coincat/coincat/internal/rules"
)

func matchCmd() *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "match <description>",
		Short: "Show how every rule evaluates one transaction description",
		Long: `A debugging helper: normalizes the given description, evaluates every
rule against it in priority order, and shows which rule would win at the
configured threshold. The AI tier is only consulted from its cache; no
external call is made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			dir, err := model.ParseDirection(direction)
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			raw := args[0]
			txn := model.NewTransaction("match-debug", time.Now(), raw, decimal.Zero, dir, "", "")

			fmt.Println(cli.FormatTitle("Rule evaluation"))
			fmt.Printf("raw:        %q\n", raw)
			fmt.Printf("normalized: %q\n\n", normalize.Normalize(raw))

			matcher := rules.NewMatcher(store)
			for _, rule := range store.Rules() {
				result := matcher.Evaluate(rule, txn)
				marker := cli.SubtleStyle.Render("miss")
				if result.Matched {
					marker = cli.FormatSuccess("match")
				}
				fmt.Printf("%3d %-10s %-12s %s  %s\n",
					rule.ID, cli.FormatTier(rule.Tier), rule.Kind, marker,
					cli.SubtleStyle.Render(result.Explanation))
			}

			resolver := engine.NewResolver(store, nil, nil)
			outcome := resolver.Resolve(cmd.Context(), txn, cfg.Threshold)

			fmt.Println()
			if outcome.NeedsReview {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"unresolved at threshold %.2f: category %s", cfg.Threshold, outcome.Category)))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf(
					"resolves to %s via the %s tier", outcome.Category, outcome.Tier)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "debit", "transaction direction (debit, credit)")
	return cmd
}
