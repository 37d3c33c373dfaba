package dates

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("dates: invalid calendar date")

// Date is a timezone-free calendar day. The canonical ISO form YYYY-MM-DD is
// the only representation used for comparison and storage keys; Date values
// are never converted to instants.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse decodes a canonical YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

// MustParse panics on malformed input; useful in tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime extracts the calendar day from an instant in the instant's own
// location. Callers pass time.Now() for "today".
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Compare returns -1, 0 or 1 ordering by year, month, day.
func (d Date) Compare(other Date) int {
	if d.Year != other.Year {
		return sign(d.Year - other.Year)
	}
	if d.Month != other.Month {
		return sign(int(d.Month) - int(other.Month))
	}
	return sign(d.Day - other.Day)
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

// Next returns the following calendar day, rolling months and years.
func (d Date) Next() Date {
	if d.Day < DaysInMonth(d.Year, d.Month) {
		return Date{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	}
	if d.Month == time.December {
		return Date{Year: d.Year + 1, Month: time.January, Day: 1}
	}
	return Date{Year: d.Year, Month: d.Month + 1, Day: 1}
}

// DaysUntil counts whole days from d to other; negative when other is earlier.
// Arithmetic runs on UTC midnights only, so no timezone can shift the result.
func (d Date) DaysUntil(other Date) int {
	from := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	to := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Weekday reports the day of week (Sunday = 0).
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// DaysInMonth returns the month length, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
