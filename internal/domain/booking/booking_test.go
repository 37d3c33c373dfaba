package booking_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubo/internal/domain/booking"
	"tubo/internal/domain/shared/dates"
	"tubo/internal/domain/shared/money"
)

func createParams(t *testing.T) booking.CreateParams {
	t.Helper()
	total, err := money.New(1_581_750, "IDR")
	require.NoError(t, err)
	return booking.CreateParams{
		ID:         booking.BookingID("bk-1"),
		CarID:      "car-1",
		GuestID:    "guest-1",
		StartDate:  dates.MustParse("2025-11-24"),
		EndDate:    dates.MustParse("2025-11-30"),
		TotalPrice: total,
		BookedAt:   time.Date(2025, time.November, 20, 10, 30, 0, 0, time.UTC),
	}
}

func TestNewBooking(t *testing.T) {
	b, err := booking.NewBooking(createParams(t))
	require.NoError(t, err)

	assert.Equal(t, booking.StatusUpcoming, b.Status)
	assert.Regexp(t, regexp.MustCompile(`^TB-[0-9A-Z]{8}$`), b.ReferenceCode)

	evts := b.PendingEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, "booking.confirmed", evts[0].EventName())
	assert.Equal(t, "bk-1", evts[0].AggregateID())
}

func TestNewBookingKeepsProvidedReference(t *testing.T) {
	p := createParams(t)
	p.ReferenceCode = "TB-AAAA1111"
	b, err := booking.NewBooking(p)
	require.NoError(t, err)
	assert.Equal(t, "TB-AAAA1111", b.ReferenceCode)
}

func TestNewBookingValidation(t *testing.T) {
	p := createParams(t)
	p.GuestID = ""
	_, err := booking.NewBooking(p)
	assert.ErrorIs(t, err, booking.ErrGuestRequired)

	p = createParams(t)
	p.EndDate = dates.MustParse("2025-11-20")
	_, err = booking.NewBooking(p)
	assert.ErrorIs(t, err, booking.ErrIncompleteRange)

	p = createParams(t)
	p.StartDate = dates.Date{}
	_, err = booking.NewBooking(p)
	assert.ErrorIs(t, err, booking.ErrIncompleteRange)

	p = createParams(t)
	p.TotalPrice = money.Money{Currency: "IDR"}
	_, err = booking.NewBooking(p)
	assert.ErrorIs(t, err, booking.ErrInvalidTotal)
}

func TestReferenceCodesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		code := booking.NewReferenceCode()
		require.Regexp(t, regexp.MustCompile(`^TB-[0-9A-Z]{8}$`), code)
		assert.False(t, seen[code], code)
		seen[code] = true
	}
}
