package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubo/internal/domain/availability"
	"tubo/internal/domain/shared/daterange"
	"tubo/internal/domain/shared/dates"
)

func mustRange(t *testing.T, start, end string) daterange.DateRange {
	t.Helper()
	r, err := daterange.New(dates.MustParse(start), dates.MustParse(end))
	require.NoError(t, err)
	return r
}

func TestIncompleteRangeIsVacuouslyAvailable(t *testing.T) {
	set := availability.NewSet(dates.MustParse("2025-11-28"))
	assert.True(t, availability.IsRangeAvailable(daterange.DateRange{}, set))
	assert.True(t, availability.IsRangeAvailable(daterange.StartOnly(dates.MustParse("2025-11-28")), set))
}

func TestBlockedEndpointRejected(t *testing.T) {
	set := availability.NewSet(dates.MustParse("2025-11-24"))
	assert.False(t, availability.IsRangeAvailable(mustRange(t, "2025-11-24", "2025-11-26"), set))
	assert.False(t, availability.IsRangeAvailable(mustRange(t, "2025-11-22", "2025-11-24"), set))
}

func TestStraddledBlockedDaysRejected(t *testing.T) {
	// The critical boundary case: neither endpoint is blocked but the span
	// crosses blocked days, so an endpoint-only check would wrongly pass.
	set, err := availability.SetFromStrings([]string{"2025-11-28", "2025-11-29"})
	require.NoError(t, err)
	assert.False(t, availability.IsRangeAvailable(mustRange(t, "2025-11-24", "2025-11-30"), set))
}

func TestFreeRangeAccepted(t *testing.T) {
	set := availability.NewSet(dates.MustParse("2025-12-05"))
	assert.True(t, availability.IsRangeAvailable(mustRange(t, "2025-11-24", "2025-11-30"), set))
}

func TestSingleDayRangeCheckedAsOneDay(t *testing.T) {
	blocked := dates.MustParse("2025-11-28")
	set := availability.NewSet(blocked)
	assert.False(t, availability.IsRangeAvailable(mustRange(t, "2025-11-28", "2025-11-28"), set))
	assert.True(t, availability.IsRangeAvailable(mustRange(t, "2025-11-27", "2025-11-27"), set))
}

func TestEmptySetAlwaysAvailable(t *testing.T) {
	assert.True(t, availability.IsRangeAvailable(mustRange(t, "2025-01-01", "2025-12-31"), nil))
}

func TestSetFromStringsRejectsMalformed(t *testing.T) {
	_, err := availability.SetFromStrings([]string{"2025-11-28", "not-a-date"})
	assert.ErrorIs(t, err, dates.ErrInvalidDate)
}
