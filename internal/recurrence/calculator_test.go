package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-app/centavo/internal/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name    string
		pattern model.RecurrencePattern
		from    time.Time
		start   *time.Time
		end     *time.Time
		want    time.Time
		wantOK  bool
	}{
		{
			name:    "daily default interval",
			pattern: model.Daily(),
			from:    date(2025, time.March, 10),
			want:    date(2025, time.March, 11),
			wantOK:  true,
		},
		{
			name:    "daily with interval",
			pattern: model.EveryNDays(3),
			from:    date(2025, time.March, 10),
			want:    date(2025, time.March, 13),
			wantOK:  true,
		},
		{
			name:    "weekly anchored lands on next matching weekday",
			pattern: model.WeeklyOn(time.Friday),
			from:    date(2025, time.January, 1), // Wednesday
			want:    date(2025, time.January, 3),
			wantOK:  true,
		},
		{
			name:    "weekly anchored from the anchor day skips a full week",
			pattern: model.WeeklyOn(time.Monday),
			from:    date(2025, time.January, 6), // Monday
			want:    date(2025, time.January, 13),
			wantOK:  true,
		},
		{
			name:    "biweekly anchored adds the extra week",
			pattern: model.BiweeklyOn(time.Friday),
			from:    date(2025, time.January, 1), // Wednesday
			want:    date(2025, time.January, 10),
			wantOK:  true,
		},
		{
			name:    "unanchored weekly steps by seven days",
			pattern: model.RecurrencePattern{Frequency: model.FrequencyWeekly},
			from:    date(2025, time.March, 10),
			want:    date(2025, time.March, 17),
			wantOK:  true,
		},
		{
			name:    "monthly before the target day stays in the month",
			pattern: model.MonthlyOn(15),
			from:    date(2025, time.January, 10),
			want:    date(2025, time.January, 15),
			wantOK:  true,
		},
		{
			name:    "monthly on the target day advances a month",
			pattern: model.MonthlyOn(15),
			from:    date(2025, time.January, 15),
			want:    date(2025, time.February, 15),
			wantOK:  true,
		},
		{
			name:    "monthly day 31 clamps in February",
			pattern: model.MonthlyOn(31),
			from:    date(2025, time.January, 31),
			want:    date(2025, time.February, 28),
			wantOK:  true,
		},
		{
			name:    "monthly day 31 clamps to leap day",
			pattern: model.MonthlyOn(31),
			from:    date(2024, time.January, 31),
			want:    date(2024, time.February, 29),
			wantOK:  true,
		},
		{
			name:    "last day sentinel resolves to month end",
			pattern: model.MonthlyLastDay(),
			from:    date(2025, time.April, 1),
			want:    date(2025, time.April, 30),
			wantOK:  true,
		},
		{
			name: "monthly with interval skips months",
			pattern: model.RecurrencePattern{
				Frequency: model.FrequencyMonthly,
				Anchor:    model.AnchorDayOfMonth,
				DayValue:  5,
				Interval:  2,
			},
			from:   date(2025, time.January, 5),
			want:   date(2025, time.March, 5),
			wantOK: true,
		},
		{
			name:    "quarterly advances to the next cycle month",
			pattern: model.QuarterlyOn(1),
			from:    date(2025, time.February, 10),
			want:    date(2025, time.April, 1),
			wantOK:  true,
		},
		{
			name:    "quarterly on a cycle boundary moves three months",
			pattern: model.QuarterlyOn(1),
			from:    date(2025, time.January, 1),
			want:    date(2025, time.April, 1),
			wantOK:  true,
		},
		{
			name:    "semiannual lands in July",
			pattern: model.SemiannualOn(15),
			from:    date(2025, time.March, 5),
			want:    date(2025, time.July, 15),
			wantOK:  true,
		},
		{
			name:    "semiannual wraps to January",
			pattern: model.SemiannualOn(15),
			from:    date(2025, time.July, 20),
			want:    date(2026, time.January, 15),
			wantOK:  true,
		},
		{
			name:    "annual adds one year",
			pattern: model.Annual(),
			from:    date(2025, time.June, 10),
			want:    date(2026, time.June, 10),
			wantOK:  true,
		},
		{
			name:    "start bound pushes the first occurrence forward",
			pattern: model.MonthlyOn(5),
			from:    date(2025, time.January, 10),
			start:   datePtr(2025, time.March, 1),
			want:    date(2025, time.March, 5),
			wantOK:  true,
		},
		{
			name:    "occurrence past the end bound is dropped",
			pattern: model.MonthlyOn(5),
			from:    date(2025, time.May, 20),
			end:     datePtr(2025, time.May, 31),
			wantOK:  false,
		},
		{
			name:    "series exhausted once from reaches the end date",
			pattern: model.Daily(),
			from:    date(2025, time.May, 31),
			end:     datePtr(2025, time.May, 31),
			wantOK:  false,
		},
		{
			name:    "end bound on the occurrence itself is inclusive",
			pattern: model.MonthlyOn(5),
			from:    date(2025, time.April, 20),
			end:     datePtr(2025, time.May, 5),
			want:    date(2025, time.May, 5),
			wantOK:  true,
		},
		{
			name:    "unknown frequency yields nothing",
			pattern: model.RecurrencePattern{Frequency: "fortnightly"},
			from:    date(2025, time.January, 1),
			wantOK:  false,
		},
		{
			name:    "time of day is truncated before comparing",
			pattern: model.Daily(),
			from:    time.Date(2025, time.March, 10, 23, 45, 0, 0, time.UTC),
			want:    date(2025, time.March, 11),
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.pattern, tt.from, tt.start, tt.end)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
				assert.True(t, got.After(midnight(tt.from)), "next occurrence must be strictly after from")
			}
		})
	}
}

func TestOccurrencesInMonth(t *testing.T) {
	tests := []struct {
		name    string
		pattern model.RecurrencePattern
		year    int
		month   time.Month
		start   *time.Time
		end     *time.Time
		want    []time.Time
	}{
		{
			name:    "daily with interval walks from month start",
			pattern: model.EveryNDays(7),
			year:    2025,
			month:   time.January,
			want: []time.Time{
				date(2025, time.January, 1),
				date(2025, time.January, 8),
				date(2025, time.January, 15),
				date(2025, time.January, 22),
				date(2025, time.January, 29),
			},
		},
		{
			name:    "weekly anchored picks every matching weekday",
			pattern: model.WeeklyOn(time.Monday),
			year:    2025,
			month:   time.January,
			want: []time.Time{
				date(2025, time.January, 6),
				date(2025, time.January, 13),
				date(2025, time.January, 20),
				date(2025, time.January, 27),
			},
		},
		{
			name:    "monthly day 31 clamps in short months",
			pattern: model.MonthlyOn(31),
			year:    2025,
			month:   time.February,
			want:    []time.Time{date(2025, time.February, 28)},
		},
		{
			name:    "monthly day 31 uses the leap day",
			pattern: model.MonthlyOn(31),
			year:    2024,
			month:   time.February,
			want:    []time.Time{date(2024, time.February, 29)},
		},
		{
			name:    "last day sentinel in a 30-day month",
			pattern: model.MonthlyLastDay(),
			year:    2025,
			month:   time.April,
			want:    []time.Time{date(2025, time.April, 30)},
		},
		{
			name:    "quarterly yields nothing outside cycle months",
			pattern: model.QuarterlyOn(1),
			year:    2025,
			month:   time.February,
			want:    nil,
		},
		{
			name:    "quarterly yields one date in a cycle month",
			pattern: model.QuarterlyOn(1),
			year:    2025,
			month:   time.October,
			want:    []time.Time{date(2025, time.October, 1)},
		},
		{
			name:    "semiannual yields only in January and July",
			pattern: model.SemiannualOn(10),
			year:    2025,
			month:   time.July,
			want:    []time.Time{date(2025, time.July, 10)},
		},
		{
			name:    "semiannual skips other months",
			pattern: model.SemiannualOn(10),
			year:    2025,
			month:   time.August,
			want:    nil,
		},
		{
			name:    "annual matches the start date's month",
			pattern: model.Annual(),
			year:    2026,
			month:   time.March,
			start:   datePtr(2020, time.March, 15),
			want:    []time.Time{date(2026, time.March, 15)},
		},
		{
			name:    "annual yields nothing in other months",
			pattern: model.Annual(),
			year:    2026,
			month:   time.April,
			start:   datePtr(2020, time.March, 15),
			want:    nil,
		},
		{
			name:    "start bound filters earlier dates",
			pattern: model.WeeklyOn(time.Monday),
			year:    2025,
			month:   time.January,
			start:   datePtr(2025, time.January, 15),
			want: []time.Time{
				date(2025, time.January, 20),
				date(2025, time.January, 27),
			},
		},
		{
			name:    "end bound excludes later dates without clamping",
			pattern: model.MonthlyOn(20),
			year:    2025,
			month:   time.May,
			end:     datePtr(2025, time.May, 15),
			want:    nil,
		},
		{
			name:    "unknown frequency yields nothing",
			pattern: model.RecurrencePattern{Frequency: "lunar"},
			year:    2025,
			month:   time.January,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OccurrencesInMonth(tt.pattern, tt.year, tt.month, tt.start, tt.end)
			assert.Equal(t, tt.want, got)

			monthStart := date(tt.year, tt.month, 1)
			monthEnd := endOfMonth(tt.year, tt.month)
			for i, d := range got {
				assert.False(t, d.Before(monthStart), "occurrence before month start")
				assert.False(t, d.After(monthEnd), "occurrence after month end")
				if i > 0 {
					assert.True(t, got[i-1].Before(d), "occurrences must be ascending without duplicates")
				}
			}
		})
	}
}

func TestQuarterlyYieldsFourPerYear(t *testing.T) {
	pattern := model.QuarterlyOn(5)
	var all []time.Time
	for month := time.January; month <= time.December; month++ {
		all = append(all, OccurrencesInMonth(pattern, 2025, month, nil, nil)...)
	}
	require.Len(t, all, 4)
	assert.Equal(t, []time.Time{
		date(2025, time.January, 5),
		date(2025, time.April, 5),
		date(2025, time.July, 5),
		date(2025, time.October, 5),
	}, all)
}

func TestSemiannualYieldsTwoPerYear(t *testing.T) {
	pattern := model.SemiannualOn(1)
	var all []time.Time
	for month := time.January; month <= time.December; month++ {
		all = append(all, OccurrencesInMonth(pattern, 2025, month, nil, nil)...)
	}
	require.Len(t, all, 2)
	assert.Equal(t, time.January, all[0].Month())
	assert.Equal(t, time.July, all[1].Month())
}
