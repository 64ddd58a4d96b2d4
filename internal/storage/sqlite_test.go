package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, store.Migrate(ctx))

	version, err = store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	require.NoError(t, store.Migrate(ctx), "migrating an up-to-date database is a no-op")
}

func TestMigrateUpgradesLegacyRows(t *testing.T) {
	ctx := context.Background()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Build a database as it looked before the pattern schema.
	require.NoError(t, store.migrateTo(ctx, 1))
	_, err = store.db.ExecContext(ctx, `
		INSERT INTO recurring_items (id, kind, amount, description, day_of_month, is_active, created_at)
		VALUES ('legacy-rent', 'expense', '1800', 'Rent', 31, 1, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = store.db.ExecContext(ctx, `
		INSERT INTO recurring_items (id, kind, amount, description, day_of_week, is_active, created_at)
		VALUES ('legacy-pay', 'income', '900', 'Paycheck', 5, 1, '2024-01-02T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))

	items, err := store.GetRecurringItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "legacy-rent", items[0].ID)
	assert.Equal(t, model.MonthlyOn(31), items[0].Pattern)
	assert.Equal(t, "legacy-pay", items[1].ID)
	assert.Equal(t, model.WeeklyOn(time.Friday), items[1].Pattern)
}

func TestGetRecurringItemsUpgradesAtLoadTime(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// A row written without a pattern, as a pre-migration client would.
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO recurring_items (id, kind, amount, description, day_of_month, is_active, created_at)
		VALUES ('raw', 'expense', '45', 'Gym', -1, 1, '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	items, err := store.GetRecurringItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.MonthlyLastDay(), items[0].Pattern)
}

func TestRecurringItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	item := model.RecurringItem{
		ID:          "rec-netflix",
		Kind:        model.KindExpense,
		Amount:      decimal.RequireFromString("15.49"),
		Description: "Netflix",
		Category:    "subscriptions",
		Pattern:     model.MonthlyOn(15),
		StartDate:   &start,
		EndDate:     &end,
		IsActive:    true,
	}
	require.NoError(t, store.SaveRecurringItem(ctx, &item))

	items, err := store.GetRecurringItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Kind, got.Kind)
	assert.True(t, got.Amount.Equal(item.Amount))
	assert.Equal(t, item.Description, got.Description)
	assert.Equal(t, item.Category, got.Category)
	assert.Equal(t, item.Pattern, got.Pattern)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, start, *got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, end, *got.EndDate)
	assert.True(t, got.IsActive)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveRecurringItemRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	item := model.RecurringItem{
		ID:          "rec-once",
		Kind:        model.KindExpense,
		Amount:      decimal.RequireFromString("45.00"),
		Description: "Gym",
		Pattern:     model.MonthlyOn(5),
		IsActive:    true,
	}
	require.NoError(t, store.SaveRecurringItem(ctx, &item))

	err := store.SaveRecurringItem(ctx, &item)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	items, err := store.GetRecurringItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSaveRecurringItemValidates(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	err := store.SaveRecurringItem(ctx, nil)
	assert.Error(t, err)

	err = store.SaveRecurringItem(ctx, &model.RecurringItem{ID: "bad"})
	assert.Error(t, err)
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	txn := model.Transaction{
		ID:          "t1",
		Type:        model.TypeSpending,
		Amount:      decimal.RequireFromString("15.49"),
		Description: "Netflix",
		IsRecurring: true,
		RecurringID: "rec-netflix",
	}
	require.NoError(t, store.SaveTransaction(ctx, date, txn))

	entries, err := store.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, date, entries[0].Date)
	assert.Equal(t, txn.ID, entries[0].Transaction.ID)
	assert.Equal(t, txn.Type, entries[0].Transaction.Type)
	assert.True(t, entries[0].Transaction.Amount.Equal(txn.Amount))
	assert.True(t, entries[0].Transaction.IsRecurring)
	assert.Equal(t, "rec-netflix", entries[0].Transaction.RecurringID)

	// Replacing by id does not duplicate.
	txn.Description = "Netflix Premium"
	require.NoError(t, store.SaveTransaction(ctx, date, txn))
	entries, err = store.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Netflix Premium", entries[0].Transaction.Description)
}

func TestSaveTransactionValidates(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)
	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.Error(t, store.SaveTransaction(ctx, date, model.Transaction{}))
	assert.Error(t, store.SaveTransaction(ctx, time.Time{}, model.Transaction{ID: "t1"}))
}

func TestGetTransactionsByDateRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	for i, day := range []int{1, 10, 20, 28} {
		date := time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, store.SaveTransaction(ctx, date, model.Transaction{
			ID:          string(rune('a' + i)),
			Type:        model.TypeSpending,
			Amount:      decimal.RequireFromString("1.00"),
			Description: "txn",
		}))
	}

	entries, err := store.GetTransactionsByDateRange(ctx,
		time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 2, "range bounds are inclusive")
	assert.Equal(t, 10, entries[0].Date.Day())
	assert.Equal(t, 20, entries[1].Date.Day())
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTransaction(ctx, date, model.Transaction{
		ID:          "t1",
		Type:        model.TypeSpending,
		Amount:      decimal.RequireFromString("1.00"),
		Description: "txn",
	}))

	require.NoError(t, store.DeleteTransaction(ctx, "t1"))

	err := store.DeleteTransaction(ctx, "t1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	entries, err := store.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
