package ledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBook creates a minimal GnuCash SQLite book with a small account tree
// and a few booked transactions.
func seedBook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.gnucash")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	schema := []string{
		`CREATE TABLE accounts (guid TEXT PRIMARY KEY, name TEXT, account_type TEXT, parent_guid TEXT)`,
		`CREATE TABLE transactions (guid TEXT PRIMARY KEY, post_date TEXT, description TEXT)`,
		`CREATE TABLE splits (guid TEXT PRIMARY KEY, tx_guid TEXT, account_guid TEXT, value_num INTEGER, value_denom INTEGER)`,
	}
	for _, stmt := range schema {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}

	seed := []string{
		`INSERT INTO accounts VALUES
			('root', 'Root Account', 'ROOT', NULL),
			('assets', 'Assets', 'ASSET', 'root'),
			('checking', 'Checking', 'BANK', 'assets'),
			('expenses', 'Expenses', 'EXPENSE', 'root'),
			('dining', 'Dining', 'EXPENSE', 'expenses'),
			('groceries', 'Groceries', 'EXPENSE', 'expenses'),
			('imbalance', 'Imbalance-USD', 'BANK', 'root')`,
		`INSERT INTO transactions VALUES
			('tx1', '2024-01-15 10:30:00', 'STARBUCKS 12345 SEATTLE'),
			('tx2', '2024-01-16 10:30:00', 'WHOLE FOODS MARKET 881'),
			('tx3', '2024-01-17 10:30:00', 'MYSTERY VENDOR')`,
		`INSERT INTO splits VALUES
			('s1a', 'tx1', 'dining', 675, 100),
			('s1b', 'tx1', 'checking', -675, 100),
			('s2a', 'tx2', 'groceries', 8812, 100),
			('s2b', 'tx2', 'checking', -8812, 100),
			('s3a', 'tx3', 'imbalance', 1000, 100),
			('s3b', 'tx3', 'checking', -1000, 100)`,
	}
	for _, stmt := range seed {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}

	return path
}

func TestOpenSQLiteMissingBook(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "absent.gnucash"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteAccounts(t *testing.T) {
	book, err := OpenSQLite(seedBook(t), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, book.Close()) }()

	accounts, err := book.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 7)

	paths := make(map[string]string)
	for _, a := range accounts {
		paths[a.GUID] = a.Path
	}
	assert.Equal(t, "", paths["root"])
	assert.Equal(t, "Assets:Checking", paths["checking"])
	assert.Equal(t, "Expenses:Dining", paths["dining"])
	assert.Equal(t, "Expenses:Groceries", paths["groceries"])
}

func TestCategoryPaths(t *testing.T) {
	book, err := OpenSQLite(seedBook(t), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, book.Close()) }()

	accounts, err := book.Accounts(context.Background())
	require.NoError(t, err)

	paths := CategoryPaths(accounts)
	assert.Equal(t, []string{"Expenses", "Expenses:Dining", "Expenses:Groceries"}, paths)
}

func TestSQLiteEntries(t *testing.T) {
	book, err := OpenSQLite(seedBook(t), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, book.Close()) }()

	entries, err := book.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2, "only expense splits are history entries")

	assert.Equal(t, "STARBUCKS 12345 SEATTLE", entries[0].Description)
	assert.Equal(t, "Expenses:Dining", entries[0].Category)
	assert.Equal(t, "6.75", entries[0].Amount.String())
	assert.Equal(t, 2024, entries[0].Date.Year())

	assert.Equal(t, "Expenses:Groceries", entries[1].Category)
}

func TestSQLiteBook(t *testing.T) {
	book, err := OpenSQLite(seedBook(t), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, book.Close()) }()

	ctx := context.Background()
	require.NoError(t, book.Book(ctx, "tx3", "Expenses:Dining"))

	// The imbalance split moved to Dining, so tx3 is now a history entry.
	entries, err := book.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "MYSTERY VENDOR", entries[2].Description)
	assert.Equal(t, "Expenses:Dining", entries[2].Category)
}

func TestSQLiteBookErrors(t *testing.T) {
	book, err := OpenSQLite(seedBook(t), nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, book.Close()) }()

	ctx := context.Background()

	err = book.Book(ctx, "tx3", "Expenses:Nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ledger account")

	// tx1 is fully booked already.
	err = book.Book(ctx, "tx1", "Expenses:Dining")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no uncategorized split")
}

func TestParsePostDate(t *testing.T) {
	assert.Equal(t, 2024, parsePostDate("2024-01-15 10:30:00").Year())
	assert.Equal(t, 2024, parsePostDate("20240115103000").Year())
	assert.Equal(t, 2024, parsePostDate("2024-01-15").Year())
	assert.True(t, parsePostDate("garbage").IsZero())
}
