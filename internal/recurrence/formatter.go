package recurrence

import (
	"fmt"
	"time"

	"github.com/centavo-app/centavo/internal/model"
)

// FormatPattern renders a pattern as human-readable text for display in
// listings, e.g. "Monthly on the 15th" or "Every 2 weeks on Friday".
func FormatPattern(p model.RecurrencePattern) string {
	switch p.Frequency {
	case model.FrequencyDaily:
		if n := p.EffectiveInterval(); n > 1 {
			return fmt.Sprintf("Every %d days", n)
		}
		return "Daily"

	case model.FrequencyWeekly:
		n := p.EffectiveInterval()
		if p.Anchor == model.AnchorDayOfWeek {
			day := time.Weekday(p.DayValue).String()
			if n > 1 {
				return fmt.Sprintf("Every %d weeks on %s", n, day)
			}
			return fmt.Sprintf("Weekly on %s", day)
		}
		if n > 1 {
			return fmt.Sprintf("Every %d weeks", n)
		}
		return "Weekly"

	case model.FrequencyBiweekly:
		if p.Anchor == model.AnchorDayOfWeek {
			return fmt.Sprintf("Every 2 weeks on %s", time.Weekday(p.DayValue).String())
		}
		return "Every 2 weeks"

	case model.FrequencyMonthly:
		n := p.EffectiveInterval()
		if p.Anchor == model.AnchorLastDay || p.DayValue == model.LastDayValue {
			if n > 1 {
				return fmt.Sprintf("Last day of every %d months", n)
			}
			return "Last day of each month"
		}
		if p.Anchor == model.AnchorDayOfMonth {
			if n > 1 {
				return fmt.Sprintf("Every %d months on the %s", n, ordinal(p.DayValue))
			}
			return fmt.Sprintf("Monthly on the %s", ordinal(p.DayValue))
		}
		return "Monthly"

	case model.FrequencyQuarterly:
		if p.Anchor == model.AnchorLastDay || p.DayValue == model.LastDayValue {
			return "Quarterly on the last day"
		}
		if p.Anchor == model.AnchorDayOfMonth {
			return fmt.Sprintf("Quarterly on the %s", ordinal(p.DayValue))
		}
		return "Quarterly"

	case model.FrequencySemiannual:
		if p.Anchor == model.AnchorLastDay || p.DayValue == model.LastDayValue {
			return "Twice a year on the last day"
		}
		if p.Anchor == model.AnchorDayOfMonth {
			return fmt.Sprintf("Twice a year on the %s", ordinal(p.DayValue))
		}
		return "Twice a year"

	case model.FrequencyAnnual:
		return "Annually"

	default:
		return string(p.Frequency)
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
