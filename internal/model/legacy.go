package model

// Legacy recurring records predate RecurrencePattern: they carried raw
// dayOfMonth (expenses) or dayOfWeek (income) integers. UpgradeLegacyPattern
// is the one-time transform applied at load time, before any of these
// records reach the engine. It is idempotent at the call site: only records
// that still lack a pattern are passed through it.
func UpgradeLegacyPattern(kind ItemKind, dayOfMonth, dayOfWeek *int) RecurrencePattern {
	if kind == KindIncome {
		day := 0
		if dayOfWeek != nil && *dayOfWeek >= 0 && *dayOfWeek <= 6 {
			day = *dayOfWeek
		}
		return RecurrencePattern{
			Frequency: FrequencyWeekly,
			Anchor:    AnchorDayOfWeek,
			DayValue:  day,
			Interval:  1,
		}
	}

	day := 1
	if dayOfMonth != nil && (*dayOfMonth == LastDayValue || (*dayOfMonth >= 1 && *dayOfMonth <= 31)) {
		day = *dayOfMonth
	}
	if day == LastDayValue {
		return MonthlyLastDay()
	}
	return MonthlyOn(day)
}
