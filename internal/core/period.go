package core

import (
	"time"
)

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// Period is a symbolic date-range selector resolved against a reference
// instant in the caller's timezone.
type Period string

// Range is a closed calendar-date interval. All marks the unbounded
// range, where Start and End are meaningless and no filtering applies.
type Range struct {
	Start Date
	End   Date
	All   bool
}

// ParsePeriod validates a raw period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Resolve computes the concrete date range for the period, relative to
// the reference instant. The week starts on Monday and ends on Sunday;
// this is a fixed policy, not configurable.
func (p Period) Resolve(ref time.Time) (Range, error) {
	today := DateOf(ref)
	switch p {
	case PeriodToday:
		return Range{Start: today, End: today}, nil
	case PeriodWeek:
		// Monday of the reference date's ISO week.
		offset := (int(ref.Weekday()) + 6) % 7
		monday := today.AddDays(-offset)
		return Range{Start: monday, End: monday.AddDays(6)}, nil
	case PeriodMonth:
		first := NewDate(ref.Year(), ref.Month(), 1)
		return Range{Start: first, End: first.AddDays(daysIn(ref.Year(), ref.Month()) - 1)}, nil
	case PeriodYear:
		return Range{
			Start: NewDate(ref.Year(), time.January, 1),
			End:   NewDate(ref.Year(), time.December, 31),
		}, nil
	case PeriodAll:
		return Range{All: true}, nil
	default:
		return Range{}, ErrInvalidPeriod
	}
}

// Contains reports whether the date falls inside the range.
func (r Range) Contains(d Date) bool {
	if r.All {
		return true
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
