package todo

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used in task files.
const DateLayout = "2006-01-02"

// dateTimeLayouts are the ISO-8601 date-time forms accepted by ParseDate.
// Only the date part is kept.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day.
// Out-of-range values are normalized the way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 date ("2024-03-15"). A full ISO-8601
// timestamp is also accepted and truncated to its date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}

	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return checkedDate(s, DateOf(t))
	}

	if len(s) > len(DateLayout) {
		for _, layout := range dateTimeLayouts {
			if dt, dtErr := time.Parse(layout, s); dtErr == nil {
				return checkedDate(s, DateOf(dt))
			}
		}
	}

	return Date{}, fmt.Errorf("parse date %q: %w", s, err)
}

// ParseDateStrict parses exactly YYYY-MM-DD.
func ParseDateStrict(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return checkedDate(s, DateOf(t))
}

func checkedDate(s string, d Date) (Date, error) {
	if !d.Valid() {
		return Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	return d, nil
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether d names a real calendar date with a four-digit
// year, so that its String form parses back to d.
func (d Date) Valid() bool {
	if d.IsZero() || d.Year < 1 || d.Year > 9999 {
		return false
	}
	return DateOf(d.Time()) == d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}
