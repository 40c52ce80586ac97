// Package ledger provides read and write access to GnuCash books, in both
// their SQLite and compressed-XML on-disk formats. The engine itself never
// books anything; the Writer is for callers applying approved outcomes.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account is one node of the book's account hierarchy.
type Account struct {
	GUID       string
	Name       string
	Type       string
	ParentGUID string
	Path       string // colon-joined path from the root, e.g. Expenses:Dining
}

// Entry is one categorized historical transaction split: the raw statement
// description together with the expense account it was booked to. The history
// analyzer mines its rules from these.
type Entry struct {
	Date        time.Time
	Description string
	Category    string // full account path
	Amount      decimal.Decimal
}

// Reader is the read side of a GnuCash book.
type Reader interface {
	// Accounts returns the full account hierarchy with paths resolved.
	Accounts(ctx context.Context) ([]Account, error)
	// Entries returns categorized historical splits for expense accounts.
	Entries(ctx context.Context) ([]Entry, error)
	Close() error
}

// Writer books an approved categorization into the ledger. Approval is the
// caller's concern; nothing in the engine invokes this.
type Writer interface {
	// Book moves the uncategorized split of the identified transaction to
	// the account named by categoryPath.
	Book(ctx context.Context, txnID, categoryPath string) error
}

// CategoryPaths filters accounts down to the expense category paths offered
// to the AI collaborator, sorted for stable output.
func CategoryPaths(accounts []Account) []string {
	var paths []string
	for _, a := range accounts {
		if a.Type == "EXPENSE" && a.Path != "" {
			paths = append(paths, a.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

// resolvePaths fills in each account's colon-joined path from the parent
// chain. Root accounts and the template namespace contribute no path segment.
func resolvePaths(accounts []Account) []Account {
	byGUID := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byGUID[a.GUID] = a
	}

	for i, a := range accounts {
		var segments []string
		cur := a
		for {
			if cur.Type == "ROOT" || cur.Name == "Root Account" {
				break
			}
			segments = append([]string{cur.Name}, segments...)
			parent, ok := byGUID[cur.ParentGUID]
			if !ok {
				break
			}
			cur = parent
		}
		accounts[i].Path = strings.Join(segments, ":")
	}
	return accounts
}
