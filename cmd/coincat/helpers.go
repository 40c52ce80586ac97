package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/coincat/coincat/internal/ai"
	"github.com/coincat/coincat/internal/config"
	"github.com/coincat/coincat/internal/csvsrc"
	"github.com/coincat/coincat/internal/ledger"
	"github.com/coincat/coincat/internal/model"
	"github.com/coincat/coincat/internal/qfx"
	"github.com/coincat/coincat/internal/rules"
)

// openStore loads the three rule tiers per the resolved configuration.
func openStore(cfg *config.Config) (*rules.Store, error) {
	store, err := rules.Open(cfg.Rules, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return store, nil
}

// buildGate constructs the AI cache gate, or returns nil when no provider is
// configured. categories may come from the ledger or the static config list.
func buildGate(ctx context.Context, cfg *config.Config, store *rules.Store, categories []string) (*ai.Gate, error) {
	if cfg.AI.Provider == "" {
		slog.Info("no AI provider configured, fallback disabled")
		return nil, nil
	}

	client, err := ai.NewClient(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	return ai.NewGate(store, client, categories, cfg.AI, slog.Default()), nil
}

// loadTransactions reads a statement file, dispatching on extension.
func loadTransactions(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".qfx", ".ofx":
		return qfx.NewParser().ParseFile(ctx, f)
	case ".csv":
		return csvsrc.NewParser(slog.Default()).Parse(f)
	default:
		return nil, fmt.Errorf("unsupported statement format %q (want .qfx, .ofx or .csv)", filepath.Ext(path))
	}
}

var sqliteMagic = []byte("SQLite format 3")

// openLedger opens a GnuCash book, sniffing SQLite versus XML.
func openLedger(path string) (ledger.Reader, error) {
	head := make([]byte, len(sqliteMagic))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger book: %w", err)
	}
	n, _ := f.Read(head)
	_ = f.Close()

	if n == len(sqliteMagic) && bytes.Equal(head, sqliteMagic) {
		return ledger.OpenSQLite(path, slog.Default())
	}
	return ledger.OpenXML(path, slog.Default())
}

// resolveCategories prefers the ledger's expense account paths over the
// static config list.
func resolveCategories(ctx context.Context, cfg *config.Config) ([]string, error) {
	if cfg.Ledger == "" {
		return cfg.Categories, nil
	}

	book, err := openLedger(cfg.Ledger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = book.Close() }()

	accounts, err := book.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.CategoryPaths(accounts), nil
}
