// Package csvsrc parses CSV bank exports into transactions.
package csvsrc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/coincat/coincat/internal/model"
)

// row is the wire form of one CSV statement line. Date, Description and
// Amount are required; the rest are optional columns some banks include.
type row struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Direction   string `csv:"direction"`
	Account     string `csv:"account"`
	Memo        string `csv:"memo"`
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
}

// Parser reads generic CSV bank exports.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a CSV parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse reads every statement line from a CSV export. A row that cannot be
// converted is skipped with a warning; only an unreadable file fails the
// parse.
func (p *Parser) Parse(r io.Reader) ([]model.Transaction, error) {
	var lines []*row
	if err := gocsv.Unmarshal(r, &lines); err != nil {
		return nil, fmt.Errorf("failed to read CSV export: %w", err)
	}

	transactions := make([]model.Transaction, 0, len(lines))
	for i, line := range lines {
		if line.Date == "" && line.Description == "" {
			continue
		}
		txn, err := p.convert(i, line)
		if err != nil {
			p.logger.Warn("skipping malformed CSV row", "row", i+1, "error", err)
			continue
		}
		transactions = append(transactions, txn)
	}

	p.logger.Info("Parsed CSV export",
		"total_transactions", len(transactions),
		"rows", len(lines))
	return transactions, nil
}

func (p *Parser) convert(index int, line *row) (model.Transaction, error) {
	date, err := parseDate(line.Date)
	if err != nil {
		return model.Transaction{}, err
	}

	if strings.TrimSpace(line.Description) == "" {
		return model.Transaction{}, fmt.Errorf("empty description")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(line.Amount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad amount %q: %w", line.Amount, err)
	}

	// With no explicit direction column, the sign decides: negative moves
	// money out. Either way the stored amount is absolute.
	var direction model.Direction
	if line.Direction != "" {
		direction, err = model.ParseDirection(strings.ToLower(strings.TrimSpace(line.Direction)))
		if err != nil {
			return model.Transaction{}, err
		}
	} else if amount.IsNegative() {
		direction = model.Debit
	} else {
		direction = model.Credit
	}

	id := line.ID
	if id == "" {
		id = fmt.Sprintf("csv-%s-%d", date.Format("20060102"), index+1)
	}

	return model.NewTransaction(
		id,
		date,
		strings.TrimSpace(line.Description),
		amount.Abs(),
		direction,
		line.Account,
		line.Memo,
	), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
