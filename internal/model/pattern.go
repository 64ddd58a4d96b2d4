// Package model defines the core data records shared across the engine:
// recurrence patterns, recurring items, ledger transactions and the
// transient statement candidates produced during import.
package model

import (
	"fmt"
	"time"
)

// Frequency identifies the base cadence of a recurrence pattern.
type Frequency string

// Supported recurrence frequencies.
const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyAnnual     Frequency = "annual"
)

// DayAnchor says how a pattern is pinned to the calendar.
type DayAnchor string

// Supported day anchors.
const (
	AnchorNone       DayAnchor = ""
	AnchorDayOfMonth DayAnchor = "dayOfMonth"
	AnchorDayOfWeek  DayAnchor = "dayOfWeek"
	AnchorLastDay    DayAnchor = "lastDayOfMonth"
)

// LastDayValue is the DayValue sentinel meaning "last day of the month".
const LastDayValue = -1

// RecurrencePattern describes how often a recurring item lands on the
// calendar. It is an immutable value; use the constructors below so that
// anchor and day value always agree with the frequency.
type RecurrencePattern struct {
	Frequency Frequency
	Anchor    DayAnchor
	DayValue  int
	Interval  int
}

// Daily returns a pattern that recurs every day.
func Daily() RecurrencePattern {
	return RecurrencePattern{Frequency: FrequencyDaily, Interval: 1}
}

// EveryNDays returns a pattern that recurs every n days.
func EveryNDays(n int) RecurrencePattern {
	return RecurrencePattern{Frequency: FrequencyDaily, Interval: n}
}

// WeeklyOn returns a weekly pattern anchored to the given weekday.
func WeeklyOn(day time.Weekday) RecurrencePattern {
	return RecurrencePattern{
		Frequency: FrequencyWeekly,
		Anchor:    AnchorDayOfWeek,
		DayValue:  int(day),
		Interval:  1,
	}
}

// BiweeklyOn returns a two-week pattern anchored to the given weekday.
func BiweeklyOn(day time.Weekday) RecurrencePattern {
	return RecurrencePattern{
		Frequency: FrequencyBiweekly,
		Anchor:    AnchorDayOfWeek,
		DayValue:  int(day),
	}
}

// MonthlyOn returns a monthly pattern anchored to a day of the month.
// Days past the end of a short month resolve to that month's last day.
func MonthlyOn(day int) RecurrencePattern {
	return RecurrencePattern{
		Frequency: FrequencyMonthly,
		Anchor:    AnchorDayOfMonth,
		DayValue:  day,
		Interval:  1,
	}
}

// MonthlyLastDay returns a monthly pattern anchored to the last day of
// each month.
func MonthlyLastDay() RecurrencePattern {
	return RecurrencePattern{
		Frequency: FrequencyMonthly,
		Anchor:    AnchorLastDay,
		DayValue:  LastDayValue,
		Interval:  1,
	}
}

// QuarterlyOn returns a quarterly pattern anchored to a day of the month.
func QuarterlyOn(day int) RecurrencePattern {
	return RecurrencePattern{
		Frequency: FrequencyQuarterly,
		Anchor:    AnchorDayOfMonth,
		DayValue:  day,
	}
}

// SemiannualOn returns a twice-a-year pattern anchored to a day of the month.
func SemiannualOn(day int) RecurrencePattern {
	return RecurrencePattern{
		Frequency: FrequencySemiannual,
		Anchor:    AnchorDayOfMonth,
		DayValue:  day,
	}
}

// Annual returns a yearly pattern. The month and day it lands on come from
// the owning item's start date.
func Annual() RecurrencePattern {
	return RecurrencePattern{Frequency: FrequencyAnnual}
}

// EffectiveInterval returns the cadence multiplier, defaulting to 1 when
// unset. Biweekly is always a fixed two-week step.
func (p RecurrencePattern) EffectiveInterval() int {
	if p.Frequency == FrequencyBiweekly {
		return 2
	}
	if p.Interval < 1 {
		return 1
	}
	return p.Interval
}

// Validate ensures the pattern's anchor and day value are consistent.
func (p RecurrencePattern) Validate() error {
	switch p.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual:
	default:
		return fmt.Errorf("unknown frequency %q", p.Frequency)
	}

	if p.Interval < 0 {
		return fmt.Errorf("interval must be positive, got %d", p.Interval)
	}

	switch p.Anchor {
	case AnchorNone, AnchorLastDay:
	case AnchorDayOfWeek:
		if p.DayValue < 0 || p.DayValue > 6 {
			return fmt.Errorf("day of week must be between 0 (Sunday) and 6 (Saturday), got %d", p.DayValue)
		}
	case AnchorDayOfMonth:
		if p.DayValue != LastDayValue && (p.DayValue < 1 || p.DayValue > 31) {
			return fmt.Errorf("day of month must be between 1 and 31 or %d for last day, got %d", LastDayValue, p.DayValue)
		}
	default:
		return fmt.Errorf("unknown day anchor %q", p.Anchor)
	}

	switch p.Frequency {
	case FrequencyWeekly, FrequencyBiweekly:
		if p.Anchor == AnchorDayOfMonth || p.Anchor == AnchorLastDay {
			return fmt.Errorf("%s patterns anchor to a weekday, not a day of month", p.Frequency)
		}
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemiannual:
		if p.Anchor == AnchorDayOfWeek {
			return fmt.Errorf("%s patterns anchor to a day of month, not a weekday", p.Frequency)
		}
	}

	return nil
}
