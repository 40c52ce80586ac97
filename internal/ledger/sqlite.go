package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteBook reads and writes a GnuCash book stored in SQLite format.
type SQLiteBook struct {
	db     *sql.DB
	logger *slog.Logger
	path   string
}

// OpenSQLite opens an existing GnuCash SQLite book. The book must already
// exist; this never creates one.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteBook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ledger book not found at %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger book: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping ledger book: %w", err)
	}

	return &SQLiteBook{db: db, path: path, logger: logger}, nil
}

// Close closes the book.
func (b *SQLiteBook) Close() error {
	return b.db.Close()
}

// Accounts returns the account hierarchy with colon-joined paths resolved.
func (b *SQLiteBook) Accounts(ctx context.Context) ([]Account, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT guid, name, account_type, COALESCE(parent_guid, '') FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.GUID, &a.Name, &a.Type, &a.ParentGUID); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	return resolvePaths(accounts), nil
}

// Entries returns every historical split booked to an expense account,
// paired with its transaction's statement description. This is the corpus
// the history analyzer mines.
func (b *SQLiteBook) Entries(ctx context.Context) ([]Entry, error) {
	accounts, err := b.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	pathByGUID := make(map[string]string, len(accounts))
	typeByGUID := make(map[string]string, len(accounts))
	for _, a := range accounts {
		pathByGUID[a.GUID] = a.Path
		typeByGUID[a.GUID] = a.Type
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT t.post_date, t.description, s.account_guid, s.value_num, s.value_denom
		FROM splits s
		JOIN transactions t ON t.guid = s.tx_guid
		ORDER BY t.post_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			postDate    string
			description string
			accountGUID string
			num, denom  int64
		)
		if err := rows.Scan(&postDate, &description, &accountGUID, &num, &denom); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}

		if typeByGUID[accountGUID] != "EXPENSE" {
			continue
		}
		if denom == 0 {
			denom = 1
		}

		entries = append(entries, Entry{
			Date:        parsePostDate(postDate),
			Description: description,
			Category:    pathByGUID[accountGUID],
			Amount:      decimal.New(num, 0).Div(decimal.New(denom, 0)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read splits: %w", err)
	}

	b.logger.Debug("loaded ledger history", "entries", len(entries))
	return entries, nil
}

// Book moves the identified transaction's uncategorized (Imbalance) split to
// the account named by categoryPath.
func (b *SQLiteBook) Book(ctx context.Context, txnID, categoryPath string) error {
	accounts, err := b.Accounts(ctx)
	if err != nil {
		return err
	}

	var targetGUID string
	imbalanceGUIDs := make(map[string]bool)
	for _, a := range accounts {
		if a.Path == categoryPath {
			targetGUID = a.GUID
		}
		if len(a.Name) >= 9 && a.Name[:9] == "Imbalance" {
			imbalanceGUIDs[a.GUID] = true
		}
	}
	if targetGUID == "" {
		return fmt.Errorf("no ledger account with path %q", categoryPath)
	}
	if len(imbalanceGUIDs) == 0 {
		return fmt.Errorf("transaction %s has no uncategorized split", txnID)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin booking: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var moved int64
	for guid := range imbalanceGUIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE splits SET account_guid = ? WHERE tx_guid = ? AND account_guid = ?`,
			targetGUID, txnID, guid)
		if err != nil {
			return fmt.Errorf("failed to rebook split: %w", err)
		}
		n, _ := res.RowsAffected()
		moved += n
	}
	if moved == 0 {
		return fmt.Errorf("transaction %s has no uncategorized split", txnID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	b.logger.Info("booked transaction",
		"transaction_id", txnID,
		"category", categoryPath,
		"splits", moved)
	return nil
}

var postDateLayouts = []string{
	"2006-01-02 15:04:05",
	"20060102150405",
	"2006-01-02",
}

// parsePostDate handles the two timestamp encodings GnuCash has used across
// versions. An unparseable date yields the zero time rather than an error;
// the analyzer only uses dates for reporting ranges.
func parsePostDate(s string) time.Time {
	for _, layout := range postDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
