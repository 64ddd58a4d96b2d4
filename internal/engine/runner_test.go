package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/ledger"
	"github.com/centavo-app/centavo/internal/model"
)

func TestImportBatch(t *testing.T) {
	t.Run("classifies in order and never aborts on a bad candidate", func(t *testing.T) {
		book := ledger.New()
		book.Add(day(2025, time.March, 10), model.Transaction{
			ID:          "existing",
			Type:        model.TypeSpending,
			Amount:      money("42.00"),
			Description: "Whole Foods Market",
		})
		runner := NewRunner(book)

		candidates := []model.StatementTransaction{
			candidate(day(2025, time.March, 10), "42.00", "Whole Foods Market", model.TypeSpending), // exact dup
			{Amount: money("1.00"), Description: "no date"},                                         // error
			candidate(day(2025, time.March, 11), "4.50", "Corner Bakery", model.TypeSpending),
			candidate(day(2025, time.March, 12), "9.99", "Spotify", model.TypeSpending),
			candidate(day(2025, time.March, 13), "120.00", "Electric Utility", model.TypeSpending),
		}

		result := runner.ImportBatch(candidates)

		assert.Equal(t, 3, result.Added)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "(no date)")
		require.Len(t, result.AddedTransactions, 3)
		assert.Equal(t, day(2025, time.March, 11), result.AddedTransactions[0].Date)
		require.Len(t, result.SkippedTransactions, 1)
		assert.Equal(t, "Whole Foods Market", result.SkippedTransactions[0].Description)
	})

	t.Run("additions are visible to later candidates in the batch", func(t *testing.T) {
		runner := NewRunner(ledger.New())
		dup := candidate(day(2025, time.March, 11), "4.50", "Corner Bakery", model.TypeSpending)

		result := runner.ImportBatch([]model.StatementTransaction{dup, dup})

		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, result.Skipped)
		assert.Empty(t, result.Errors)
	})

	t.Run("progress is reported for every candidate including failures", func(t *testing.T) {
		runner := NewRunner(ledger.New())
		var calls [][2]int
		runner.SetProgress(func(processed, total int) {
			calls = append(calls, [2]int{processed, total})
		})

		candidates := []model.StatementTransaction{
			candidate(day(2025, time.March, 11), "4.50", "Corner Bakery", model.TypeSpending),
			{Amount: money("1.00"), Description: "no date"},
			candidate(day(2025, time.March, 12), "9.99", "Spotify", model.TypeSpending),
		}
		runner.ImportBatch(candidates)

		require.Len(t, calls, 3)
		assert.Equal(t, [2]int{1, 3}, calls[0])
		assert.Equal(t, [2]int{3, 3}, calls[2])
	})

	t.Run("empty batch yields an empty result", func(t *testing.T) {
		runner := NewRunner(ledger.New())
		result := runner.ImportBatch(nil)
		assert.Zero(t, result.Added)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.Errors)
	})
}
