// Package ledger holds the read-only transaction records shown by the admin
// console and the parse step that turns raw store documents into them.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction.
type Type string

const (
	TypeDeposit  Type = "deposit"
	TypeWithdraw Type = "withdraw"
)

// Types lists every known Type.
var Types = []Type{TypeDeposit, TypeWithdraw}

// Sign returns the prefix used when rendering an amount of this type.
func (t Type) Sign() string {
	if t == TypeDeposit {
		return "+"
	}
	return "-"
}

func (t Type) Label() string { return capitalize(string(t)) }

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Statuses lists every known Status.
var Statuses = []Status{StatusPending, StatusCompleted, StatusFailed}

func (s Status) Label() string { return capitalize(string(s)) }

// Transaction is one deposit or withdrawal as stored in the transactions
// collection. UserEmail and Remarks are optional and may be empty.
type Transaction struct {
	ID        string
	UserID    string
	UserEmail string
	Amount    decimal.Decimal
	Type      Type
	Status    Status
	Timestamp time.Time
	Remarks   string
}

// Anonymous reports whether the owner has no display email.
func (t Transaction) Anonymous() bool {
	return strings.TrimSpace(t.UserEmail) == ""
}

// Totals sums amounts per type over txs.
type Totals struct {
	Count       int
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}

func Summarize(txs []Transaction) Totals {
	out := Totals{Count: len(txs), Deposits: decimal.Zero, Withdrawals: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case TypeDeposit:
			out.Deposits = out.Deposits.Add(tx.Amount)
		case TypeWithdraw:
			out.Withdrawals = out.Withdrawals.Add(tx.Amount)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
