package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coincat/coincat/internal/cli"
	"github.com/coincat/coincat/internal/common"
	"github.com/coincat/coincat/internal/config"
	"github.com/coincat/coincat/internal/ledger"
)

func accountsCmd() *cobra.Command {
	var expensesOnly bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the ledger's account hierarchy",
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

			accounts, err := book.Accounts(cmd.Context())
			if err != nil {
				return err
			}

			if expensesOnly {
				fmt.Println(cli.FormatTitle("Expense categories"))
				for _, path := range ledger.CategoryPaths(accounts) {
					fmt.Println("  " + path)
				}
				return nil
			}

			fmt.Println(cli.FormatTitle("Accounts"))
			for _, a := range accounts {
				if a.Path == "" {
					continue
				}
				fmt.Printf("  %-50s %s\n", a.Path, cli.SubtleStyle.Render(a.Type))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&expensesOnly, "expenses", "e", false, "only list expense category paths")
	return cmd
}
