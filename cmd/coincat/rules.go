package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coincat/coincat/internal/cli"
	"github.com/coincat/coincat/internal/common"
	"github.com/coincat/coincat/internal/config"
	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and manage the categorization rule tiers",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesValidateCmd())
	cmd.AddCommand(rulesInitCmd())
	return cmd
}

func rulesListCmd() *cobra.Command {
	var tierFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in priority order",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			var listed []model.Rule
			if tierFilter != "" {
				tier, err := model.ParseTier(tierFilter)
				if err != nil {
					return err
				}
				listed = store.Tier(tier)
			} else {
				listed = store.Rules()
			}

			fmt.Println(cli.FormatTitle("Rules (priority order)"))
			for _, r := range listed {
				line := fmt.Sprintf("%3d  %-10s %-12s %-40q -> %s (%.2f)",
					r.ID, cli.FormatTier(r.Tier), r.Kind, r.Pattern, cli.BoldStyle.Render(r.Category), r.Confidence)
				if r.Direction != nil {
					line += cli.SubtleStyle.Render(fmt.Sprintf("  [%s only]", *r.Direction))
				}
				fmt.Println(line)
			}

			counts := store.Counts()
			fmt.Println()
			fmt.Println(cli.FormatInfo(fmt.Sprintf("manual: %d, history: %d, ai: %d",
				counts[model.TierManual], counts[model.TierHistory], counts[model.TierAI])))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tierFilter, "tier", "t", "", "only list one tier (manual, history, ai)")
	return cmd
}

func rulesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every tier file, reporting the first offending rule",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := rules.Open(cfg.Rules, nil)
			if err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				return common.NewUserError("rule validation failed", err)
			}

			counts := store.Counts()
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"all tiers valid: %d manual, %d history, %d ai",
				counts[model.TierManual], counts[model.TierHistory], counts[model.TierAI])))
			return nil
		},
	}
}

func rulesInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold empty tier files at the configured paths",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			targets := map[string]string{
				cfg.Rules.Manual:  "manually curated rules, highest priority",
				cfg.Rules.History: "rules mined from categorized ledger history",
				cfg.Rules.AI:      "rules learned from the AI collaborator",
			}

			for path, description := range targets {
				if _, err := os.Stat(path); err == nil {
					fmt.Println(cli.FormatInfo(fmt.Sprintf("%s exists, leaving it alone", path)))
					continue
				}
				tf := &rules.TierFile{
					Version:     rules.TierFileVersion,
					Description: description,
					Rules:       []rules.RuleRecord{},
				}
				if err := rules.WriteTierFile(path, tf); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("created " + path))
			}
			return nil
		},
	}
}
