package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// SaveTransaction inserts or replaces a ledger transaction on its day.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, date time.Time, txn model.Transaction) error {
	if txn.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO transactions
			(id, posted_on, type, amount, description, account_id, transfer_to_account_id,
			 is_recurring, recurring_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		date.Format(dateLayout),
		string(txn.Type),
		txn.Amount.String(),
		txn.Description,
		txn.AccountID,
		txn.TransferToAccountID,
		txn.IsRecurring,
		txn.RecurringID,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction by id.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// GetTransactions returns every stored transaction in date order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.LedgerEntry, error) {
	return s.queryTransactions(ctx, `
		SELECT id, posted_on, type, amount, description,
		       COALESCE(account_id, ''), COALESCE(transfer_to_account_id, ''),
		       is_recurring, COALESCE(recurring_id, '')
		FROM transactions
		ORDER BY posted_on, id`)
}

// GetTransactionsByDateRange returns transactions posted within the
// inclusive date range.
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.LedgerEntry, error) {
	return s.queryTransactions(ctx, `
		SELECT id, posted_on, type, amount, description,
		       COALESCE(account_id, ''), COALESCE(transfer_to_account_id, ''),
		       is_recurring, COALESCE(recurring_id, '')
		FROM transactions
		WHERE posted_on >= ? AND posted_on <= ?
		ORDER BY posted_on, id`,
		start.Format(dateLayout), end.Format(dateLayout))
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LedgerEntry
	for rows.Next() {
		entry, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return entries, nil
}

func scanTransaction(rows *sql.Rows) (model.LedgerEntry, error) {
	var (
		entry    model.LedgerEntry
		postedOn string
		txType   string
		amount   string
	)
	err := rows.Scan(&entry.Transaction.ID, &postedOn, &txType, &amount,
		&entry.Transaction.Description,
		&entry.Transaction.AccountID, &entry.Transaction.TransferToAccountID,
		&entry.Transaction.IsRecurring, &entry.Transaction.RecurringID)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	entry.Transaction.Type = model.TransactionType(txType)
	entry.Transaction.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	entry.Date, err = time.Parse(dateLayout, postedOn)
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("invalid stored date %q: %w", postedOn, err)
	}
	return entry, nil
}
