package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/cli"
	"github.com/centavo-app/centavo/internal/engine"
	"github.com/centavo-app/centavo/internal/extract"
	"github.com/centavo-app/centavo/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a bank statement export and reconcile it against the ledger",
		Long: `Import transactions from a bank statement export.

CSV exports are read row by row (date, signed amount, description).
Text exports (e.g. from a PDF statement) are scanned line by line.

Each candidate is classified against the existing ledger: exact and fuzzy
duplicates are skipped, known recurring charges are linked to their
recurring item, and everything else is added.

Examples:
  centavo import ~/Downloads/statement_jan.csv
  centavo import --format statement ~/Downloads/statement_jan.txt
  centavo import --dry-run ~/Downloads/statement_jan.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("format", "", "Input format: csv or statement (default: by file extension)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	format, _ := cmd.Flags().GetString("format")

	path := args[0]
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = "csv"
		} else {
			format = "statement"
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied import path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	var candidates []model.StatementTransaction
	switch format {
	case "csv":
		candidates, err = extract.FromCSVRows(lines)
	case "statement":
		candidates, err = extract.FromStatementLines(lines)
	default:
		return fmt.Errorf("unknown format %q (expected csv or statement)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to extract candidates from %s: %w", filepath.Base(path), err)
	}

	slog.Info("Extracted statement candidates",
		"file", filepath.Base(path),
		"count", len(candidates))

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	book, err := loadLedger(ctx, store)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(candidates),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reconciling...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	runner := engine.NewRunner(book)
	runner.SetProgress(func(_, _ int) {
		_ = bar.Add(1)
	})
	result := runner.ImportBatch(candidates)

	if !dryRun {
		for _, entry := range result.AddedTransactions {
			if err := store.SaveTransaction(ctx, entry.Date, entry.Transaction); err != nil {
				return fmt.Errorf("failed to persist transaction on %s: %w",
					entry.Date.Format("2006-01-02"), err)
			}
		}
	}

	printImportSummary(result, dryRun)
	return nil
}

func printImportSummary(result model.ImportResult, dryRun bool) {
	var b strings.Builder
	fmt.Fprintf(&b, "Added:   %d\n", result.Added)
	fmt.Fprintf(&b, "Skipped: %d\n", result.Skipped)
	fmt.Fprintf(&b, "Errors:  %d", len(result.Errors))
	if dryRun {
		b.WriteString("\n")
		b.WriteString(cli.FormatWarning("dry run: nothing was saved"))
	}
	fmt.Println(cli.RenderBox("Import result", b.String()))

	for _, msg := range result.Errors {
		fmt.Println(cli.FormatError(msg))
	}
	if len(result.SkippedTransactions) > 0 {
		fmt.Println(cli.SubtleStyle.Render("Skipped for review:"))
		for _, skipped := range result.SkippedTransactions {
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %s  %8s  %s",
				skipped.Date.Format("2006-01-02"), skipped.Amount.StringFixed(2), skipped.Description)))
		}
	}
}
