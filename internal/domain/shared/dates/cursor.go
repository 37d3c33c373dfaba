package dates

import "time"

// MonthCursor addresses the single month a calendar grid renders. It moves
// independently of any selected range.
type MonthCursor struct {
	Year  int
	Month time.Month
}

// CursorFor returns the cursor addressing the month containing d.
func CursorFor(d Date) MonthCursor {
	return MonthCursor{Year: d.Year, Month: d.Month}
}

// Prev shifts the cursor back one month, rolling January into December of the
// prior year.
func (c MonthCursor) Prev() MonthCursor {
	if c.Month == time.January {
		return MonthCursor{Year: c.Year - 1, Month: time.December}
	}
	return MonthCursor{Year: c.Year, Month: c.Month - 1}
}

// Next shifts the cursor forward one month, rolling December into January of
// the next year.
func (c MonthCursor) Next() MonthCursor {
	if c.Month == time.December {
		return MonthCursor{Year: c.Year + 1, Month: time.January}
	}
	return MonthCursor{Year: c.Year, Month: c.Month + 1}
}

// First returns the first day of the addressed month.
func (c MonthCursor) First() Date {
	return Date{Year: c.Year, Month: c.Month, Day: 1}
}

// Len returns the number of days in the addressed month.
func (c MonthCursor) Len() int {
	return DaysInMonth(c.Year, c.Month)
}

// Contains reports whether d falls inside the addressed month.
func (c MonthCursor) Contains(d Date) bool {
	return d.Year == c.Year && d.Month == c.Month
}
