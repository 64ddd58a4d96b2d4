// Package engine implements the reconciliation core: classifying statement
// candidates against the ledger and running batch imports.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/centavo-app/centavo/internal/ledger"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/recurrence"
	"github.com/centavo-app/centavo/internal/similarity"
)

// Outcome is the classification of one statement candidate.
type Outcome string

// Classification outcomes, in decision order.
const (
	OutcomeAdded            Outcome = "added"
	OutcomeSkippedExact     Outcome = "skipped_exact"
	OutcomeSkippedRecurring Outcome = "skipped_recurring"
	OutcomeSkippedFuzzy     Outcome = "skipped_fuzzy"
)

// Matching thresholds. Precise matches are tried before fuzzy ones, so the
// recurring similarity bar sits below the fuzzy-duplicate bar.
const (
	recurringSimilarityThreshold = 0.70
	fuzzySimilarityThreshold     = 0.80
	dateWindowDays               = 2
)

// Decision is the result of classifying one candidate. Transaction is only
// populated for OutcomeAdded; RecurringID is set whenever a recurring item
// was matched, whether or not an instance already existed.
type Decision struct {
	Outcome     Outcome
	RecurringID string
	Transaction model.Transaction
}

// Matcher classifies statement candidates against a ledger snapshot.
type Matcher struct {
	ledger *ledger.Ledger
}

// NewMatcher creates a matcher over the given ledger.
func NewMatcher(l *ledger.Ledger) *Matcher {
	return &Matcher{ledger: l}
}

// Classify decides whether a candidate is an exact duplicate, a recurring
// duplicate, a fuzzy duplicate, or genuinely new. First match wins.
func (m *Matcher) Classify(candidate model.StatementTransaction) (Decision, error) {
	if candidate.Date.IsZero() {
		return Decision{}, fmt.Errorf("candidate has no date")
	}
	if candidate.Amount.IsNegative() {
		return Decision{}, fmt.Errorf("candidate amount %s is negative", candidate.Amount)
	}

	candidateType := candidate.Type
	if candidateType == "" {
		candidateType = model.TypeSpending
	}

	// 1. Exact duplicate: same day, same type, amount within a cent,
	// case/whitespace-insensitive description.
	for _, txn := range m.ledger.On(candidate.Date) {
		if txn.Type == candidateType &&
			model.AmountsMatch(txn.Amount, candidate.Amount) &&
			descriptionsEqual(txn.Description, candidate.Description) {
			return Decision{Outcome: OutcomeSkippedExact}, nil
		}
	}

	// 2. Recurring match.
	if item, ok := m.matchRecurring(candidate, candidateType); ok {
		if m.ledger.HasRecurringInstance(item.ID, candidate.Date.Year(), candidate.Date.Month()) {
			return Decision{Outcome: OutcomeSkippedRecurring, RecurringID: item.ID}, nil
		}
		// Known pattern, no instance on record yet: the candidate is the
		// materialization. It carries the provenance link and takes the
		// item's canonical description rather than the bank's raw text.
		txn := m.buildTransaction(candidate, candidateType, item.ID)
		txn.Description = item.Description
		return Decision{
			Outcome:     OutcomeAdded,
			RecurringID: item.ID,
			Transaction: txn,
		}, nil
	}

	// 3. Fuzzy duplicate within the ±2-day window, same type only.
	for _, entry := range m.ledger.Window(candidate.Date, dateWindowDays) {
		txn := entry.Transaction
		if txn.Type == candidateType &&
			model.AmountsMatch(txn.Amount, candidate.Amount) &&
			similarity.Score(txn.Description, candidate.Description) > fuzzySimilarityThreshold {
			return Decision{Outcome: OutcomeSkippedFuzzy}, nil
		}
	}

	// 4. Genuinely new.
	return Decision{
		Outcome:     OutcomeAdded,
		Transaction: m.buildTransaction(candidate, candidateType, ""),
	}, nil
}

// matchRecurring searches the active recurring items of the candidate's
// type for one whose amount, description similarity and occurrence window
// all line up with the candidate.
func (m *Matcher) matchRecurring(candidate model.StatementTransaction, candidateType model.TransactionType) (model.RecurringItem, bool) {
	var catalog []model.RecurringItem
	switch candidateType {
	case model.TypeSpending:
		catalog = m.ledger.RecurringExpenses()
	case model.TypeIncome:
		catalog = m.ledger.RecurringIncome()
	default:
		return model.RecurringItem{}, false
	}

	for _, item := range catalog {
		if !item.IsActive {
			continue
		}
		if !model.AmountsMatch(item.Amount, candidate.Amount) {
			continue
		}
		if similarity.Score(item.Description, candidate.Description) <= recurringSimilarityThreshold {
			continue
		}
		occurrences := recurrence.OccurrencesInMonth(item.Pattern,
			candidate.Date.Year(), candidate.Date.Month(), item.StartDate, item.EndDate)
		if withinWindow(occurrences, candidate.Date, dateWindowDays) {
			return item, true
		}
	}
	return model.RecurringItem{}, false
}

func (m *Matcher) buildTransaction(candidate model.StatementTransaction, candidateType model.TransactionType, recurringID string) model.Transaction {
	return model.Transaction{
		ID:          uuid.NewString(),
		Type:        candidateType,
		Amount:      candidate.Amount,
		Description: candidate.Description,
		IsRecurring: recurringID != "",
		RecurringID: recurringID,
	}
}

// descriptionsEqual compares descriptions ignoring case and whitespace runs.
func descriptionsEqual(a, b string) bool {
	return collapse(a) == collapse(b)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// withinWindow reports whether any occurrence falls within ±days of date.
func withinWindow(occurrences []time.Time, date time.Time, days int) bool {
	day := date.Truncate(24 * time.Hour)
	for _, occ := range occurrences {
		diff := occ.Sub(day).Hours() / 24
		if diff < 0 {
			diff = -diff
		}
		if diff <= float64(days) {
			return true
		}
	}
	return false
}
