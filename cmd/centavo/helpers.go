package main

import (
	"context"
	"fmt"

	"github.com/centavo-app/centavo/internal/config"
	"github.com/centavo-app/centavo/internal/ledger"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/service"
	"github.com/centavo-app/centavo/internal/storage"
)

// openStorage opens the configured database and ensures the schema is
// current. Callers own the returned store and must Close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// loadLedger builds an in-memory ledger snapshot from storage: every
// transaction plus the recurring catalog split by kind.
func loadLedger(ctx context.Context, store service.Storage) (*ledger.Ledger, error) {
	book := ledger.New()

	entries, err := store.GetTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, entry := range entries {
		book.Add(entry.Date, entry.Transaction)
	}

	items, err := store.GetRecurringItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring items: %w", err)
	}
	var expenses, income []model.RecurringItem
	for _, item := range items {
		if item.Kind == model.KindIncome {
			income = append(income, item)
		} else {
			expenses = append(expenses, item)
		}
	}
	book.SetRecurring(expenses, income)

	return book, nil
}
