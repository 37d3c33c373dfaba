package calendar

import (
	"tubo/internal/domain/availability"
	"tubo/internal/domain/shared/daterange"
	"tubo/internal/domain/shared/dates"
)

// DayStatus classifies one grid cell for rendering. The classification is a
// contract: every client must reproduce it identically.
type DayStatus string

const (
	StatusUnavailable DayStatus = "unavailable"
	StatusStart       DayStatus = "start"
	StatusEnd         DayStatus = "end"
	StatusInRange     DayStatus = "in-range"
	StatusAvailable   DayStatus = "available"
)

// ApplyClick translates a day click into the next selection state. Every
// transition is total: invalid clicks are absorbed as no-ops or restarts,
// never errors. The second result reports whether the click was accepted; a
// click on an unavailable day returns the range unchanged with false, and the
// caller must treat it as if it never happened.
//
//   - a click on an unavailable day is ignored
//   - with no start, or with a complete range, the click starts a new range
//   - mid-selection, a click before the start restarts; any other click
//     completes the range
//
// Completion deliberately performs no full-range availability check; the
// proceed gate owns that (see availability.IsRangeAvailable).
func ApplyClick(r daterange.DateRange, d dates.Date, unavailable availability.Set) (daterange.DateRange, bool) {
	if unavailable.Contains(d) {
		return r, false
	}
	if r.Start == nil || r.Complete() {
		return daterange.StartOnly(d), true
	}
	if d.Before(*r.Start) {
		return daterange.StartOnly(d), true
	}
	end := d
	return daterange.DateRange{Start: r.Start, End: &end}, true
}

// Classify resolves the status of a single day against the current selection.
// Precedence: unavailable, start, end, in-range, available.
func Classify(d dates.Date, r daterange.DateRange, unavailable availability.Set) DayStatus {
	if unavailable.Contains(d) {
		return StatusUnavailable
	}
	if r.Start != nil && d.Equal(*r.Start) {
		return StatusStart
	}
	if r.End != nil && d.Equal(*r.End) {
		return StatusEnd
	}
	if r.StrictlyBetween(d) {
		return StatusInRange
	}
	return StatusAvailable
}

// InitialCursor picks the month the grid opens on: the month of the selection
// start when one exists, otherwise the month of today.
func InitialCursor(r daterange.DateRange, today dates.Date) dates.MonthCursor {
	if r.Start != nil {
		return dates.CursorFor(*r.Start)
	}
	return dates.CursorFor(today)
}
