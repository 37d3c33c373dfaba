package daterange

import (
	"errors"

	"tubo/internal/domain/shared/dates"
)

var ErrInvalidRange = errors.New("daterange: end must not precede start")

// DateRange is the inclusive start/end pair a renter selects. Either endpoint
// may be unset: both unset means no selection, start alone means a selection
// in progress.
type DateRange struct {
	Start *dates.Date
	End   *dates.Date
}

// New builds a complete range validating order.
func New(start, end dates.Date) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: &start, End: &end}, nil
}

// StartOnly builds a half-finished selection.
func StartOnly(start dates.Date) DateRange {
	return DateRange{Start: &start}
}

// Complete reports whether both endpoints are set.
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Empty reports whether no endpoint is set.
func (r DateRange) Empty() bool {
	return r.Start == nil && r.End == nil
}

// Validate checks the ordering invariant on whatever endpoints are present.
func (r DateRange) Validate() error {
	if r.Start == nil && r.End != nil {
		return ErrInvalidRange
	}
	if r.Complete() && r.End.Before(*r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the billed day count: whole days between start and end with a
// floor of one, so a same-day or malformed range never bills zero.
func (r DateRange) Days() int {
	if !r.Complete() {
		return 1
	}
	days := r.Start.DaysUntil(*r.End)
	if days < 1 {
		return 1
	}
	return days
}

// Contains reports whether d lies in [start, end]. False for incomplete
// ranges.
func (r DateRange) Contains(d dates.Date) bool {
	if !r.Complete() {
		return false
	}
	return !d.Before(*r.Start) && !d.After(*r.End)
}

// StrictlyBetween reports whether d lies strictly inside the range, endpoints
// excluded.
func (r DateRange) StrictlyBetween(d dates.Date) bool {
	if !r.Complete() {
		return false
	}
	return d.After(*r.Start) && d.Before(*r.End)
}
