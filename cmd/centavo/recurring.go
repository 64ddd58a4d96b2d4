package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/centavo-app/centavo/internal/cli"
	"github.com/centavo-app/centavo/internal/model"
	"github.com/centavo-app/centavo/internal/recurrence"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring expenses and income",
	}

	cmd.AddCommand(recurringListCmd())
	cmd.AddCommand(recurringAddCmd())

	return cmd
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring items with their next occurrence",
		RunE:  runRecurringList,
	}
}

func runRecurringList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	items, err := store.GetRecurringItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recurring items: %w", err)
	}
	if len(items) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No recurring items yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Recurring items"))
	now := time.Now()
	for _, item := range items {
		next := "-"
		if item.IsActive {
			if d, ok := recurrence.NextOccurrence(item.Pattern, now, item.StartDate, item.EndDate); ok {
				next = d.Format("2006-01-02")
			} else {
				next = "ended"
			}
		} else {
			next = "inactive"
		}
		fmt.Printf("  %-7s %9s  %-28s %-32s next: %s\n",
			item.Kind,
			item.Amount.StringFixed(2),
			truncate(item.Description, 28),
			recurrence.FormatPattern(item.Pattern),
			next)
	}
	return nil
}

func recurringAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring expense or income",
		Long: `Add a recurring item to the catalog.

Examples:
  centavo recurring add --kind expense --amount 15.99 --description "Netflix" --frequency monthly --day 5
  centavo recurring add --kind income --amount 2500 --description "Salary" --frequency monthly --day -1
  centavo recurring add --kind expense --amount 40 --description "Gym" --frequency weekly --weekday 1`,
		RunE: runRecurringAdd,
	}

	cmd.Flags().String("kind", "expense", "Item kind: expense or income")
	cmd.Flags().String("amount", "", "Amount (required, positive)")
	cmd.Flags().String("description", "", "Description (required)")
	cmd.Flags().String("category", "", "Optional category")
	cmd.Flags().String("frequency", "monthly", "Frequency: daily, weekly, biweekly, monthly, quarterly, semiannual, annual")
	cmd.Flags().Int("day", 0, "Day of month (1-31, or -1 for last day)")
	cmd.Flags().Int("weekday", -1, "Day of week (0=Sunday..6=Saturday)")
	cmd.Flags().Int("interval", 0, "Cadence multiplier (e.g. every 2 weeks)")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD, inclusive)")

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func runRecurringAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	kind, _ := cmd.Flags().GetString("kind")
	amountStr, _ := cmd.Flags().GetString("amount")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	frequency, _ := cmd.Flags().GetString("frequency")
	day, _ := cmd.Flags().GetInt("day")
	weekday, _ := cmd.Flags().GetInt("weekday")
	interval, _ := cmd.Flags().GetInt("interval")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")

	amount, err := decimal.NewFromString(strings.TrimPrefix(amountStr, "$"))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	pattern, err := buildPattern(model.Frequency(frequency), day, weekday, interval)
	if err != nil {
		return err
	}

	item := model.RecurringItem{
		ID:          uuid.NewString(),
		Kind:        model.ItemKind(kind),
		Amount:      amount,
		Description: description,
		Category:    category,
		Pattern:     pattern,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if item.StartDate, err = parseDateFlag(startStr); err != nil {
		return err
	}
	if item.EndDate, err = parseDateFlag(endStr); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid recurring item: %w", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveRecurringItem(ctx, &item); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s: %s (%s)",
		item.Kind, item.Description, recurrence.FormatPattern(item.Pattern))))
	return nil
}

// buildPattern maps the add-command flags onto a validated pattern.
func buildPattern(frequency model.Frequency, day, weekday, interval int) (model.RecurrencePattern, error) {
	p := model.RecurrencePattern{Frequency: frequency, Interval: interval}

	switch frequency {
	case model.FrequencyWeekly, model.FrequencyBiweekly:
		if weekday >= 0 {
			p.Anchor = model.AnchorDayOfWeek
			p.DayValue = weekday
		}
	case model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencySemiannual:
		switch {
		case day == model.LastDayValue:
			p.Anchor = model.AnchorLastDay
			p.DayValue = model.LastDayValue
		case day > 0:
			p.Anchor = model.AnchorDayOfMonth
			p.DayValue = day
		default:
			return model.RecurrencePattern{}, fmt.Errorf("%s patterns need --day (1-31, or -1 for last day)", frequency)
		}
	}

	if err := p.Validate(); err != nil {
		return model.RecurrencePattern{}, fmt.Errorf("invalid pattern: %w", err)
	}
	return p, nil
}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
