// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coincat/coincat/internal/normalize"
)

// Direction indicates whether a transaction moves money out of (debit) or
// into (credit) the account.
type Direction string

// Direction constants.
const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Debit, Credit:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid direction %q (want debit or credit)", s)
	}
}

// Transaction represents a single financial transaction from any source.
// Transactions are immutable once parsed; the normalized description is
// derived exactly once at construction time.
type Transaction struct {
	Date           time.Time
	ID             string
	RawDescription string
	Description    string // normalized form of RawDescription
	AccountID      string
	Memo           string
	Direction      Direction
	Amount         decimal.Decimal
}

// NewTransaction builds a Transaction and derives its normalized description.
func NewTransaction(id string, date time.Time, rawDescription string, amount decimal.Decimal, direction Direction, accountID, memo string) Transaction {
	return Transaction{
		ID:             id,
		Date:           date,
		RawDescription: rawDescription,
		Description:    normalize.Normalize(rawDescription),
		Amount:         amount,
		Direction:      direction,
		AccountID:      accountID,
		Memo:           memo,
	}
}
