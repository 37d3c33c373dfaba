package calendar

import (
	"tubo/internal/domain/availability"
	"tubo/internal/domain/shared/daterange"
	"tubo/internal/domain/shared/dates"
)

// DayCell is one renderable cell of the month grid. The connector flags
// describe the half/full range bar drawn under the cell; they derive purely
// from the classification plus adjacent-endpoint presence.
type DayCell struct {
	Date         dates.Date
	Status       DayStatus
	ConnectLeft  bool
	ConnectRight bool
}

// MonthGrid is one calendar month laid out for a Sunday-first week grid.
type MonthGrid struct {
	Year    int
	Month   string
	Leading int // empty pad cells before day 1
	Days    []DayCell
}

// BuildMonth renders the month addressed by cursor against the current
// selection and unavailable set.
func BuildMonth(cursor dates.MonthCursor, r daterange.DateRange, unavailable availability.Set) MonthGrid {
	first := cursor.First()
	grid := MonthGrid{
		Year:    cursor.Year,
		Month:   cursor.Month.String(),
		Leading: int(first.Weekday()),
		Days:    make([]DayCell, 0, cursor.Len()),
	}
	for day, n := first, cursor.Len(); n > 0; day, n = day.Next(), n-1 {
		status := Classify(day, r, unavailable)
		cell := DayCell{Date: day, Status: status}
		switch status {
		case StatusStart:
			cell.ConnectRight = r.End != nil
		case StatusEnd:
			cell.ConnectLeft = r.Start != nil
		case StatusInRange:
			cell.ConnectLeft = true
			cell.ConnectRight = true
		}
		grid.Days = append(grid.Days, cell)
	}
	return grid
}
