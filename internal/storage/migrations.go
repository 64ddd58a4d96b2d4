package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/centavo-app/centavo/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS recurring_items (
					id TEXT PRIMARY KEY,
					kind TEXT NOT NULL,
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					category TEXT,
					day_of_month INTEGER,
					day_of_week INTEGER,
					start_date TEXT,
					end_date TEXT,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					posted_on TEXT NOT NULL,
					type TEXT NOT NULL,
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					account_id TEXT,
					transfer_to_account_id TEXT,
					is_recurring INTEGER NOT NULL DEFAULT 0,
					recurring_id TEXT
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_posted_on ON transactions(posted_on)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Replace raw day columns with recurrence patterns",
		Up: func(tx *sql.Tx) error {
			columns := []string{
				`ALTER TABLE recurring_items ADD COLUMN frequency TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE recurring_items ADD COLUMN anchor TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE recurring_items ADD COLUMN day_value INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE recurring_items ADD COLUMN interval INTEGER NOT NULL DEFAULT 0`,
			}
			for _, query := range columns {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to add pattern column: %w", err)
				}
			}
			return upgradeLegacyRows(tx)
		},
	},
	{
		Version:     3,
		Description: "Index transactions by recurring provenance",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(
				`CREATE INDEX IF NOT EXISTS idx_transactions_recurring ON transactions(recurring_id)`)
			if err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
			return nil
		},
	},
}

// upgradeLegacyRows rewrites pre-pattern recurring rows into the pattern
// schema: monthly on day_of_month for expenses, weekly on day_of_week for
// income. Rows that already carry a frequency are left untouched, so
// re-running the migration is harmless.
func upgradeLegacyRows(tx *sql.Tx) error {
	rows, err := tx.Query(
		`SELECT id, kind, day_of_month, day_of_week FROM recurring_items WHERE frequency = ''`)
	if err != nil {
		return fmt.Errorf("failed to select legacy rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type upgrade struct {
		id      string
		pattern model.RecurrencePattern
	}
	var upgrades []upgrade

	for rows.Next() {
		var (
			id, kind   string
			dayOfMonth sql.NullInt64
			dayOfWeek  sql.NullInt64
		)
		if err := rows.Scan(&id, &kind, &dayOfMonth, &dayOfWeek); err != nil {
			return fmt.Errorf("failed to scan legacy row: %w", err)
		}

		var dom, dow *int
		if dayOfMonth.Valid {
			v := int(dayOfMonth.Int64)
			dom = &v
		}
		if dayOfWeek.Valid {
			v := int(dayOfWeek.Int64)
			dow = &v
		}
		upgrades = append(upgrades, upgrade{
			id:      id,
			pattern: model.UpgradeLegacyPattern(model.ItemKind(kind), dom, dow),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate legacy rows: %w", err)
	}

	for _, u := range upgrades {
		_, err := tx.Exec(
			`UPDATE recurring_items SET frequency = ?, anchor = ?, day_value = ?, interval = ? WHERE id = ?`,
			string(u.pattern.Frequency), string(u.pattern.Anchor), u.pattern.DayValue, u.pattern.Interval, u.id)
		if err != nil {
			return fmt.Errorf("failed to upgrade row %s: %w", u.id, err)
		}
	}
	if len(upgrades) > 0 {
		slog.Info("Upgraded legacy recurring items", "count", len(upgrades))
	}
	return nil
}

func (s *SQLiteStorage) ensureMigrationTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// migrateTo applies every pending migration up to target, each inside its
// own transaction.
func (s *SQLiteStorage) migrateTo(ctx context.Context, target int) error {
	if err := s.ensureMigrationTable(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current || migration.Version > target {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			migration.Version, migration.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
