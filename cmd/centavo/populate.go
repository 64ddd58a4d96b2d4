package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/cli"
)

func populateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate [year-month]",
		Short: "Materialize recurring items into a month's ledger",
		Long: `Materialize every active recurring item's occurrences in the given month
as ledger transactions. Occurrences that were already materialized are left
alone, so populating the same month twice is harmless.

Examples:
  centavo populate 2026-03`,
		Args: cobra.ExactArgs(1),
		RunE: runPopulate,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview without saving")

	return cmd
}

func runPopulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	month, err := time.Parse("2006-01", args[0])
	if err != nil {
		return fmt.Errorf("invalid month %q (expected YYYY-MM): %w", args[0], err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	book, err := loadLedger(ctx, store)
	if err != nil {
		return err
	}

	added := book.PopulateMonth(month.Year(), month.Month())

	if !dryRun {
		for _, entry := range added {
			if err := store.SaveTransaction(ctx, entry.Date, entry.Transaction); err != nil {
				return fmt.Errorf("failed to persist transaction on %s: %w",
					entry.Date.Format("2006-01-02"), err)
			}
		}
	}

	msg := fmt.Sprintf("Materialized %d recurring transactions for %s", len(added), args[0])
	if dryRun {
		msg += " (dry run)"
	}
	fmt.Println(cli.FormatSuccess(msg))
	return nil
}
