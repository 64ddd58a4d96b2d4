package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a ledger transaction.
type TransactionType string

// Supported transaction types.
const (
	TypeIncome   TransactionType = "income"
	TypeSpending TransactionType = "spending"
	TypeTransfer TransactionType = "transfer"
)

// Transaction is a single entry in a day bucket of the ledger. The sign of
// the amount is implied by the type; Amount itself is always positive.
type Transaction struct {
	ID                  string
	Type                TransactionType
	Amount              decimal.Decimal
	Description         string
	AccountID           string
	TransferToAccountID string

	// Provenance link back to the recurring item that generated this
	// transaction, when there is one.
	IsRecurring bool
	RecurringID string
}

// LedgerEntry pairs a transaction with the calendar day it is posted on.
// Transactions do not carry their own date; the ledger's day buckets do.
type LedgerEntry struct {
	Date        time.Time
	Transaction Transaction
}

// StatementTransaction is a candidate extracted from an external bank
// statement. It is transient: produced by the extractor, consumed once by
// the reconciliation runner, never persisted.
type StatementTransaction struct {
	Date        time.Time
	Amount      decimal.Decimal // non-negative magnitude
	Description string
	Type        TransactionType // inferred; empty when the source gave no signal
}

// ImportResult tallies one statement import. Built fresh per batch and
// returned to the caller for display; the engine keeps no copy.
type ImportResult struct {
	Added               int
	Skipped             int
	Errors              []string
	SkippedTransactions []StatementTransaction

	// AddedTransactions carries the constructed transactions so the owning
	// store can apply and persist them.
	AddedTransactions []LedgerEntry
}

// centTolerance is the amount comparison window: two amounts within one
// cent of each other are considered equal for matching purposes.
var centTolerance = decimal.New(1, -2)

// AmountsMatch reports whether two amounts differ by less than one cent.
func AmountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(centTolerance)
}
