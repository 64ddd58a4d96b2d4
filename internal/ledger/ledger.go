// Package ledger holds the in-memory ledger the engine classifies against:
// a date-keyed map of day buckets plus the recurring-item catalog. The
// ledger is an explicitly owned value passed to collaborators, never
// ambient global state; the caller serializes mutations.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/recurrence"
)

// DayKeyFormat is the bucket key layout for calendar days.
const DayKeyFormat = "2006-01-02"

// DayKey returns the bucket key for a calendar day.
func DayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

// Ledger is a snapshot of recorded transactions bucketed by day, together
// with the recurring-item catalog used for matching.
type Ledger struct {
	days     map[string][]model.Transaction
	expenses []model.RecurringItem
	income   []model.RecurringItem
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{days: make(map[string][]model.Transaction)}
}

// SetRecurring replaces the recurring-item catalog.
func (l *Ledger) SetRecurring(expenses, income []model.RecurringItem) {
	l.expenses = expenses
	l.income = income
}

// RecurringExpenses returns the recurring expense catalog.
func (l *Ledger) RecurringExpenses() []model.RecurringItem {
	return l.expenses
}

// RecurringIncome returns the recurring income catalog.
func (l *Ledger) RecurringIncome() []model.RecurringItem {
	return l.income
}

// Add appends a transaction to the given day's bucket.
func (l *Ledger) Add(date time.Time, txn model.Transaction) {
	key := DayKey(date)
	l.days[key] = append(l.days[key], txn)
}

// Remove deletes the transaction with the given id from the given day.
// It reports whether anything was removed.
func (l *Ledger) Remove(date time.Time, id string) bool {
	key := DayKey(date)
	bucket := l.days[key]
	for i, txn := range bucket {
		if txn.ID == id {
			l.days[key] = append(bucket[:i], bucket[i+1:]...)
			if len(l.days[key]) == 0 {
				delete(l.days, key)
			}
			return true
		}
	}
	return false
}

// Update replaces the transaction with the same id on the given day.
// It reports whether a matching transaction was found.
func (l *Ledger) Update(date time.Time, txn model.Transaction) bool {
	bucket := l.days[DayKey(date)]
	for i := range bucket {
		if bucket[i].ID == txn.ID {
			bucket[i] = txn
			return true
		}
	}
	return false
}

// On returns the transactions posted on the given day.
func (l *Ledger) On(date time.Time) []model.Transaction {
	return l.days[DayKey(date)]
}

// Window returns every transaction posted within ±days of the given date,
// ordered by date.
func (l *Ledger) Window(date time.Time, days int) []model.LedgerEntry {
	var entries []model.LedgerEntry
	for offset := -days; offset <= days; offset++ {
		day := date.AddDate(0, 0, offset)
		for _, txn := range l.days[DayKey(day)] {
			entries = append(entries, model.LedgerEntry{Date: day, Transaction: txn})
		}
	}
	return entries
}

// Entries returns the whole ledger as date-ordered entries.
func (l *Ledger) Entries() []model.LedgerEntry {
	keys := make([]string, 0, len(l.days))
	for key := range l.days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var entries []model.LedgerEntry
	for _, key := range keys {
		date, err := time.Parse(DayKeyFormat, key)
		if err != nil {
			continue
		}
		for _, txn := range l.days[key] {
			entries = append(entries, model.LedgerEntry{Date: date, Transaction: txn})
		}
	}
	return entries
}

// HasRecurringInstance reports whether a transaction generated from the
// given recurring item is already recorded in the given month.
func (l *Ledger) HasRecurringInstance(recurringID string, year int, month time.Month) bool {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		for _, txn := range l.days[DayKey(d)] {
			if txn.IsRecurring && txn.RecurringID == recurringID {
				return true
			}
		}
	}
	return false
}

// PopulateMonth materializes every active recurring item's occurrences in
// the given month as ledger transactions, carrying provenance back to the
// item. Occurrences already materialized on their day are skipped, so the
// operation is idempotent. The newly added entries are returned for the
// owning store to persist.
func (l *Ledger) PopulateMonth(year int, month time.Month) []model.LedgerEntry {
	var added []model.LedgerEntry
	for _, item := range append(append([]model.RecurringItem{}, l.expenses...), l.income...) {
		if !item.IsActive {
			continue
		}
		occurrences := recurrence.OccurrencesInMonth(item.Pattern, year, month, item.StartDate, item.EndDate)
		for _, date := range occurrences {
			if l.hasInstanceOn(date, item.ID) {
				continue
			}
			txn := model.Transaction{
				ID:          uuid.NewString(),
				Type:        item.TransactionType(),
				Amount:      item.Amount,
				Description: item.Description,
				IsRecurring: true,
				RecurringID: item.ID,
			}
			l.Add(date, txn)
			added = append(added, model.LedgerEntry{Date: date, Transaction: txn})
		}
	}
	return added
}

func (l *Ledger) hasInstanceOn(date time.Time, recurringID string) bool {
	for _, txn := range l.days[DayKey(date)] {
		if txn.IsRecurring && txn.RecurringID == recurringID {
			return true
		}
	}
	return false
}
