package availability

import (
	"context"

	"tubo/internal/domain/shared/daterange"
	"tubo/internal/domain/shared/dates"
)

// Set is the per-car collection of calendar days that cannot be part of any
// selected range. Immutable for the lifetime of a details view.
type Set map[dates.Date]struct{}

// NewSet builds a set from individual days.
func NewSet(days ...dates.Date) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// SetFromStrings parses canonical YYYY-MM-DD strings into a set.
func SetFromStrings(raw []string) (Set, error) {
	s := make(Set, len(raw))
	for _, v := range raw {
		d, err := dates.Parse(v)
		if err != nil {
			return nil, err
		}
		s[d] = struct{}{}
	}
	return s, nil
}

// Contains reports membership. A nil set contains nothing.
func (s Set) Contains(d dates.Date) bool {
	_, ok := s[d]
	return ok
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for d := range s {
		out[d] = struct{}{}
	}
	return out
}

// Strings returns the members in canonical form, unordered.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d.String())
	}
	return out
}

// IsRangeAvailable reports whether every day of the range, endpoints
// inclusive, is free. A range missing either endpoint is vacuously available.
// Rental durations are short, so the linear day scan is fine.
func IsRangeAvailable(r daterange.DateRange, unavailable Set) bool {
	if !r.Complete() {
		return true
	}
	for d := *r.Start; !d.After(*r.End); d = d.Next() {
		if unavailable.Contains(d) {
			return false
		}
	}
	return true
}

// Source resolves the unavailable set for a car; the domain does not care how
// it is populated.
type Source interface {
	UnavailableDates(ctx context.Context, carID string) (Set, error)
}
