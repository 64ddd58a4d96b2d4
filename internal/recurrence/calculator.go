// Package recurrence expands recurrence patterns into concrete calendar
// dates. All operations are pure: dates go in, dates come out, and every
// comparison happens at day granularity.
package recurrence

import (
	"time"

	"github.com/centavo-app/centavo/internal/model"
)

// NextOccurrence returns the first occurrence of the pattern strictly after
// from, honoring the optional inclusive start and end bounds. The second
// return value is false when the series is exhausted or the frequency is
// not recognized.
func NextOccurrence(p model.RecurrencePattern, from time.Time, start, end *time.Time) (time.Time, bool) {
	from = midnight(from)
	if end != nil && !from.Before(midnight(*end)) {
		// Inclusive end: once from reaches the end date the series is done.
		return time.Time{}, false
	}

	next, ok := advance(p, from)
	if !ok {
		return time.Time{}, false
	}
	if start != nil {
		if s := midnight(*start); next.Before(s) {
			// Re-anchor just before the start bound so the first occurrence
			// at or after it is produced.
			next, ok = advance(p, s.AddDate(0, 0, -1))
			if !ok {
				return time.Time{}, false
			}
		}
	}
	if end != nil && next.After(midnight(*end)) {
		return time.Time{}, false
	}
	return next, true
}

// OccurrencesInMonth returns every occurrence of the pattern within the
// given month, in ascending order, filtered by the optional inclusive
// bounds. An unrecognized frequency yields nothing.
func OccurrencesInMonth(p model.RecurrencePattern, year int, month time.Month, start, end *time.Time) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := endOfMonth(year, month)

	var dates []time.Time
	switch p.Frequency {
	case model.FrequencyDaily:
		for d := first; !d.After(last); d = d.AddDate(0, 0, p.EffectiveInterval()) {
			dates = append(dates, d)
		}

	case model.FrequencyWeekly, model.FrequencyBiweekly:
		if p.Anchor == model.AnchorDayOfWeek {
			for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
				if int(d.Weekday()) == p.DayValue {
					dates = append(dates, d)
				}
			}
		} else {
			step := 7 * p.EffectiveInterval()
			for d := first; !d.After(last); d = d.AddDate(0, 0, step) {
				dates = append(dates, d)
			}
		}

	case model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencySemiannual:
		if applicableMonth(p.Frequency, month) {
			dates = append(dates, resolveDay(p, year, month))
		}

	case model.FrequencyAnnual:
		// Annual patterns land on the start date's month and day.
		if start != nil && start.Month() == month {
			dates = append(dates, clampDay(year, month, start.Day()))
		}

	default:
		return nil
	}

	return filterBounds(dates, start, end)
}

// advance computes the first occurrence strictly after from, ignoring both
// bounds; NextOccurrence applies them.
func advance(p model.RecurrencePattern, from time.Time) (time.Time, bool) {
	switch p.Frequency {
	case model.FrequencyDaily:
		return from.AddDate(0, 0, p.EffectiveInterval()), true

	case model.FrequencyWeekly, model.FrequencyBiweekly:
		if p.Anchor == model.AnchorDayOfWeek {
			delta := (p.DayValue - int(from.Weekday()) + 7) % 7
			if delta == 0 {
				delta = 7
			}
			return from.AddDate(0, 0, delta+(p.EffectiveInterval()-1)*7), true
		}
		return from.AddDate(0, 0, 7*p.EffectiveInterval()), true

	case model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencySemiannual:
		year, month := from.Year(), from.Month()
		for !applicableMonth(p.Frequency, month) {
			year, month = nextMonth(year, month, 1)
		}
		candidate := resolveDay(p, year, month)
		if candidate.After(from) {
			return candidate, true
		}
		year, month = nextMonth(year, month, monthStep(p))
		for !applicableMonth(p.Frequency, month) {
			year, month = nextMonth(year, month, 1)
		}
		return resolveDay(p, year, month), true

	case model.FrequencyAnnual:
		return from.AddDate(1, 0, 0), true

	default:
		return time.Time{}, false
	}
}

// applicableMonth reports whether the month belongs to the pattern's cycle.
// Quarterly cycles start in January, April, July and October; semiannual
// in January and July.
func applicableMonth(f model.Frequency, month time.Month) bool {
	switch f {
	case model.FrequencyQuarterly:
		return (int(month)-1)%3 == 0
	case model.FrequencySemiannual:
		return month == time.January || month == time.July
	default:
		return true
	}
}

// monthStep is how many months one cycle of the pattern spans.
func monthStep(p model.RecurrencePattern) int {
	switch p.Frequency {
	case model.FrequencyQuarterly:
		return 3
	case model.FrequencySemiannual:
		return 6
	default:
		return p.EffectiveInterval()
	}
}

// resolveDay pins a month-anchored pattern to a concrete date. Day values
// past the end of a short month clamp to the month's last day rather than
// skipping the month; the -1 sentinel always means the last day.
func resolveDay(p model.RecurrencePattern, year int, month time.Month) time.Time {
	if p.Anchor == model.AnchorLastDay || p.DayValue == model.LastDayValue {
		return endOfMonth(year, month)
	}
	day := p.DayValue
	if day < 1 {
		day = 1
	}
	return clampDay(year, month, day)
}

func clampDay(year int, month time.Month, day int) time.Time {
	if n := daysIn(year, month); day > n {
		day = n
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func nextMonth(year int, month time.Month, step int) (int, time.Month) {
	t := time.Date(year, month+time.Month(step), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

func daysIn(year int, month time.Month) int {
	// Day zero of the following month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func endOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func filterBounds(dates []time.Time, start, end *time.Time) []time.Time {
	if start == nil && end == nil {
		return dates
	}
	kept := dates[:0]
	for _, d := range dates {
		if start != nil && d.Before(midnight(*start)) {
			continue
		}
		if end != nil && d.After(midnight(*end)) {
			continue
		}
		kept = append(kept, d)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
