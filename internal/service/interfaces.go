// Package service defines the interfaces for the application's external
// collaborators. The engine itself performs no I/O; everything that does
// lives behind these contracts.
package service

import (
	"context"
	"time"

	"github.com/centavo-app/centavo/internal/model"
)

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Recurring item catalog
	SaveRecurringItem(ctx context.Context, item *model.RecurringItem) error
	GetRecurringItems(ctx context.Context) ([]model.RecurringItem, error)

	// Ledger transactions
	SaveTransaction(ctx context.Context, date time.Time, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransactions(ctx context.Context) ([]model.LedgerEntry, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.LedgerEntry, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
