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

const dateLayout = "2006-01-02"

// SaveRecurringItem inserts a new recurring item. Item ids are unique;
// saving an id that already exists is rejected with ErrDuplicateEntry.
func (s *SQLiteStorage) SaveRecurringItem(ctx context.Context, item *model.RecurringItem) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid recurring item: %w", err)
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM recurring_items WHERE id = ?)`, item.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check recurring item: %w", err)
	}
	if exists {
		return fmt.Errorf("recurring item %s: %w", item.ID, common.ErrDuplicateEntry)
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recurring_items
			(id, kind, amount, description, category, frequency, anchor, day_value, interval,
			 start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		string(item.Kind),
		item.Amount.String(),
		item.Description,
		item.Category,
		string(item.Pattern.Frequency),
		string(item.Pattern.Anchor),
		item.Pattern.DayValue,
		item.Pattern.Interval,
		nullableDate(item.StartDate),
		nullableDate(item.EndDate),
		item.IsActive,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save recurring item: %w", err)
	}
	return nil
}

// GetRecurringItems returns the full recurring catalog. Rows written before
// the pattern schema are upgraded on the fly as a safety net; the migration
// normally rewrites them first.
func (s *SQLiteStorage) GetRecurringItems(ctx context.Context) ([]model.RecurringItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, amount, description, COALESCE(category, ''),
		       frequency, anchor, day_value, interval,
		       start_date, end_date, is_active, created_at,
		       day_of_month, day_of_week
		FROM recurring_items
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.RecurringItem
	for rows.Next() {
		item, err := scanRecurringItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurring items: %w", err)
	}
	return items, nil
}

func scanRecurringItem(rows *sql.Rows) (model.RecurringItem, error) {
	var (
		item              model.RecurringItem
		kind              string
		amount            string
		frequency, anchor string
		dayValue          int
		interval          int
		startDate         sql.NullString
		endDate           sql.NullString
		createdAt         string
		dayOfMonth        sql.NullInt64
		dayOfWeek         sql.NullInt64
	)
	err := rows.Scan(&item.ID, &kind, &amount, &item.Description, &item.Category,
		&frequency, &anchor, &dayValue, &interval,
		&startDate, &endDate, &item.IsActive, &createdAt,
		&dayOfMonth, &dayOfWeek)
	if err != nil {
		return model.RecurringItem{}, fmt.Errorf("failed to scan recurring item: %w", err)
	}

	item.Kind = model.ItemKind(kind)
	item.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.RecurringItem{}, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}

	if frequency == "" {
		var dom, dow *int
		if dayOfMonth.Valid {
			v := int(dayOfMonth.Int64)
			dom = &v
		}
		if dayOfWeek.Valid {
			v := int(dayOfWeek.Int64)
			dow = &v
		}
		item.Pattern = model.UpgradeLegacyPattern(item.Kind, dom, dow)
	} else {
		item.Pattern = model.RecurrencePattern{
			Frequency: model.Frequency(frequency),
			Anchor:    model.DayAnchor(anchor),
			DayValue:  dayValue,
			Interval:  interval,
		}
	}

	if item.StartDate, err = parseNullableDate(startDate); err != nil {
		return model.RecurringItem{}, err
	}
	if item.EndDate, err = parseNullableDate(endDate); err != nil {
		return model.RecurringItem{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		item.CreatedAt = t
	}
	return item, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseNullableDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", s.String, err)
	}
	return &t, nil
}
