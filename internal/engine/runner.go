package engine

import (
	"fmt"
	"log/slog"

	"github.com/centavo-app/centavo/internal/ledger"
	"github.com/centavo-app/centavo/internal/model"
)

// Runner orchestrates a batch import: it classifies each candidate in
// input order, applies the additions to the ledger snapshot so later
// candidates see them, and tallies the result. Persisting the applied
// entries is the owning store's job.
type Runner struct {
	matcher  *Matcher
	ledger   *ledger.Ledger
	progress func(processed, total int)
}

// NewRunner creates a runner over the given ledger snapshot.
func NewRunner(l *ledger.Ledger) *Runner {
	return &Runner{
		matcher: NewMatcher(l),
		ledger:  l,
	}
}

// SetProgress installs an optional callback invoked after each candidate.
func (r *Runner) SetProgress(fn func(processed, total int)) {
	r.progress = fn
}

// ImportBatch classifies every candidate in order. A failure on one
// candidate is recorded in the result's error list, tagged with the
// candidate's date, and never aborts the batch.
func (r *Runner) ImportBatch(candidates []model.StatementTransaction) model.ImportResult {
	result := model.ImportResult{}

	for i, candidate := range candidates {
		decision, err := r.matcher.Classify(candidate)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("candidate %s: %v", candidateDate(candidate), err))
			r.report(i+1, len(candidates))
			continue
		}

		switch decision.Outcome {
		case OutcomeAdded:
			r.ledger.Add(candidate.Date, decision.Transaction)
			result.Added++
			result.AddedTransactions = append(result.AddedTransactions,
				model.LedgerEntry{Date: candidate.Date, Transaction: decision.Transaction})
		default:
			result.Skipped++
			result.SkippedTransactions = append(result.SkippedTransactions, candidate)
		}
		r.report(i+1, len(candidates))
	}

	slog.Info("Import batch complete",
		"candidates", len(candidates),
		"added", result.Added,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	return result
}

func (r *Runner) report(processed, total int) {
	if r.progress != nil {
		r.progress(processed, total)
	}
}

func candidateDate(c model.StatementTransaction) string {
	if c.Date.IsZero() {
		return "(no date)"
	}
	return c.Date.Format("2006-01-02")
}
