package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes the two variants of a recurring item.
type ItemKind string

// Supported recurring item kinds.
const (
	KindExpense ItemKind = "expense"
	KindIncome  ItemKind = "income"
)

// RecurringItem is a user-defined recurring expense or income. The engine
// only reads these; creation and edits happen in the owning store.
type RecurringItem struct {
	ID          string
	Kind        ItemKind
	Amount      decimal.Decimal
	Description string
	Category    string
	Pattern     RecurrencePattern
	StartDate   *time.Time // inclusive
	EndDate     *time.Time // inclusive
	IsActive    bool
	CreatedAt   time.Time
}

// TransactionType returns the ledger transaction type that instances of
// this item materialize as.
func (r RecurringItem) TransactionType() TransactionType {
	if r.Kind == KindIncome {
		return TypeIncome
	}
	return TypeSpending
}

// Validate checks the invariants a recurring item must hold before it is
// accepted into the catalog.
func (r RecurringItem) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recurring item id is required")
	}
	if r.Kind != KindExpense && r.Kind != KindIncome {
		return fmt.Errorf("unknown recurring item kind %q", r.Kind)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", r.Amount)
	}
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	return r.Pattern.Validate()
}
