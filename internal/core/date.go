package core

import (
	"time"
)

// ISODateFormat is the storage and wire format for calendar dates.
const ISODateFormat = "2006-01-02"

// BRDateFormat is the Brazilian day-first format accepted on input and
// used when echoing dates back to the user.
const BRDateFormat = "02/01/2006"

// Date is a naive calendar date with day granularity. The embedded time
// is always midnight UTC; stored dates are compared directly, without
// timezone conversion.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's
// own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts exactly two textual formats, YYYY-MM-DD and
// DD/MM/YYYY. Anything else is ErrInvalidDate, including dates that do
// not exist on the calendar (2024-13-01, 31/02/2024).
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{ISODateFormat, BRDateFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// String renders the date in ISO format.
func (d Date) String() string { return d.Format(ISODateFormat) }

// BR renders the date in the Brazilian day-first format.
func (d Date) BR() string { return d.Format(BRDateFormat) }

// Before reports whether d falls on an earlier day than x.
func (d Date) Before(x Date) bool { return d.Time.Before(x.Time) }

// After reports whether d falls on a later day than x.
func (d Date) After(x Date) bool { return d.Time.After(x.Time) }

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}
