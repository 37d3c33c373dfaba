package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubo/internal/domain/availability"
	"tubo/internal/domain/booking"
	"tubo/internal/domain/checkout"
	"tubo/internal/domain/pricing"
	"tubo/internal/domain/shared/dates"
)

var testNow = time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)

func newSession(t *testing.T) *booking.Session {
	t.Helper()
	s, err := booking.NewSession("sess-1", "guest-1", "car-1", dates.MustParse("2025-11-20"), testNow)
	require.NoError(t, err)
	return s
}

// drives a fresh session through date selection into the checkout view.
func checkoutSession(t *testing.T) *booking.Session {
	t.Helper()
	s := newSession(t)
	require.NoError(t, s.Click(dates.MustParse("2025-11-24"), nil, testNow))
	require.NoError(t, s.Click(dates.MustParse("2025-11-30"), nil, testNow))
	require.NoError(t, s.Proceed(nil, testNow))
	return s
}

func fillValidForm(t *testing.T, s *booking.Session) {
	t.Helper()
	for field, value := range map[string]string{
		"mobile":     "+62 812 3456 7890",
		"email":      "guest@example.com",
		"firstName":  "Putu",
		"lastName":   "Wijaya",
		"age":        "25-34",
		"cardNumber": "4242424242424242",
		"expiry":     "12/27",
		"cvc":        "123",
	} {
		require.NoError(t, s.SetField(field, value, testNow))
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, booking.StateDetailsOpen, s.State)
	assert.Equal(t, dates.MonthCursor{Year: 2025, Month: time.November}, s.Cursor)
	assert.Equal(t, pricing.PlanNonRefundable, s.Plan)
	assert.Equal(t, checkout.PaymentCard, s.Payment)
	assert.True(t, s.Range.Empty())
}

func TestNewSessionRequiresGuest(t *testing.T) {
	_, err := booking.NewSession("sess-1", "", "car-1", dates.MustParse("2025-11-20"), testNow)
	assert.ErrorIs(t, err, booking.ErrGuestRequired)
}

func TestProceedRequiresCompleteRange(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, s.Proceed(nil, testNow), booking.ErrRangeIncomplete)

	require.NoError(t, s.Click(dates.MustParse("2025-11-24"), nil, testNow))
	assert.ErrorIs(t, s.Proceed(nil, testNow), booking.ErrRangeIncomplete)
}

func TestProceedRejectsStraddledUnavailableDays(t *testing.T) {
	blocked, err := availability.SetFromStrings([]string{"2025-11-28", "2025-11-29"})
	require.NoError(t, err)

	s := newSession(t)
	require.NoError(t, s.Click(dates.MustParse("2025-11-24"), blocked, testNow))
	require.NoError(t, s.Click(dates.MustParse("2025-11-30"), blocked, testNow))

	assert.ErrorIs(t, s.Proceed(blocked, testNow), booking.ErrRangeUnavailable)
	assert.Equal(t, booking.StateDatesSelecting, s.State)
}

func TestProceedResetsCheckoutState(t *testing.T) {
	s := checkoutSession(t)
	require.NoError(t, s.SelectPlan(pricing.PlanRefundable, testNow))
	require.NoError(t, s.SetField("email", "guest@example.com", testNow))

	require.NoError(t, s.Back(testNow))
	require.NoError(t, s.Click(dates.MustParse("2025-12-01"), nil, testNow))
	require.NoError(t, s.Click(dates.MustParse("2025-12-05"), nil, testNow))
	require.NoError(t, s.Proceed(nil, testNow))

	assert.Equal(t, pricing.PlanNonRefundable, s.Plan)
	assert.Equal(t, checkout.PaymentCard, s.Payment)
	assert.Empty(t, s.Form.Email)
}

func TestSelectPlanDoesNotTouchRange(t *testing.T) {
	s := checkoutSession(t)
	before := s.Range

	require.NoError(t, s.SelectPlan(pricing.PlanRefundable, testNow))
	require.NoError(t, s.SelectPlan(pricing.PlanRefundable, testNow))
	assert.Equal(t, pricing.PlanRefundable, s.Plan)
	assert.Equal(t, before, s.Range)

	assert.ErrorIs(t, s.SelectPlan("weekly", testNow), pricing.ErrUnknownPlan)
	assert.Equal(t, pricing.PlanRefundable, s.Plan)
}

func TestSetFieldClearsOnlyItsError(t *testing.T) {
	s := checkoutSession(t)
	assert.ErrorIs(t, s.Submit(testNow), booking.ErrValidationFailed)
	require.Contains(t, s.FieldErrors, "email")
	require.Contains(t, s.FieldErrors, "mobile")

	require.NoError(t, s.SetField("email", "g", testNow))
	assert.NotContains(t, s.FieldErrors, "email")
	assert.Contains(t, s.FieldErrors, "mobile")
}

func TestSetFieldUnknownName(t *testing.T) {
	s := checkoutSession(t)
	assert.ErrorIs(t, s.SetField("middleName", "x", testNow), booking.ErrUnknownField)
}

func TestSubmitValidFormEntersProcessing(t *testing.T) {
	s := checkoutSession(t)
	fillValidForm(t, s)

	require.NoError(t, s.Submit(testNow))
	assert.True(t, s.Processing)
	assert.Empty(t, s.FieldErrors)

	// every checkout interaction is frozen while processing
	assert.ErrorIs(t, s.SetField("email", "x", testNow), booking.ErrProcessing)
	assert.ErrorIs(t, s.SelectPlan(pricing.PlanRefundable, testNow), booking.ErrProcessing)
	assert.ErrorIs(t, s.Submit(testNow), booking.ErrProcessing)
	assert.ErrorIs(t, s.Back(testNow), booking.ErrProcessing)
}

func TestSubmitAlternativePaymentSkipsCardFields(t *testing.T) {
	s := checkoutSession(t)
	require.NoError(t, s.SelectPayment(checkout.PaymentAlternative, testNow))
	for field, value := range map[string]string{
		"mobile": "08123456789", "email": "guest@example.com",
		"firstName": "Putu", "lastName": "Wijaya", "age": "25-34",
	} {
		require.NoError(t, s.SetField(field, value, testNow))
	}
	assert.NoError(t, s.Submit(testNow))
}

func TestConfirmCompletesFlow(t *testing.T) {
	s := checkoutSession(t)
	fillValidForm(t, s)
	require.NoError(t, s.Submit(testNow))

	require.NoError(t, s.Confirm(booking.BookingID("bk-1"), testNow))
	assert.Equal(t, booking.StateConfirmed, s.State)
	assert.False(t, s.Processing)
	assert.Equal(t, booking.BookingID("bk-1"), s.BookingID)

	// confirmation screen still pins the selection until navigation
	assert.True(t, s.Range.Complete())
	require.NoError(t, s.Navigate(testNow))
	assert.Equal(t, booking.StateBrowsing, s.State)
	assert.True(t, s.Range.Empty())
}

func TestConfirmRequiresProcessing(t *testing.T) {
	s := checkoutSession(t)
	assert.ErrorIs(t, s.Confirm(booking.BookingID("bk-1"), testNow), booking.ErrInvalidState)
}

func TestBackPreservesRange(t *testing.T) {
	s := checkoutSession(t)
	require.NoError(t, s.Back(testNow))
	assert.Equal(t, booking.StateDetailsOpen, s.State)
	require.True(t, s.Range.Complete())
	assert.Equal(t, "2025-11-24", s.Range.Start.String())
	assert.Equal(t, "2025-11-30", s.Range.End.String())
}

func TestCloseDiscardsSelection(t *testing.T) {
	s := checkoutSession(t)
	require.NoError(t, s.Close(testNow))
	assert.Equal(t, booking.StateBrowsing, s.State)
	assert.True(t, s.Range.Empty())

	evts := s.PendingEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, "booking.session_closed", evts[0].EventName())
}

func TestCloseAllowedMidProcessing(t *testing.T) {
	s := checkoutSession(t)
	fillValidForm(t, s)
	require.NoError(t, s.Submit(testNow))

	require.NoError(t, s.Close(testNow))
	assert.False(t, s.Processing)
	assert.Equal(t, booking.StateBrowsing, s.State)
}

func TestClosedSessionRejectsInteraction(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Close(testNow))
	assert.ErrorIs(t, s.Click(dates.MustParse("2025-11-24"), nil, testNow), booking.ErrInvalidState)
	assert.ErrorIs(t, s.Close(testNow), booking.ErrInvalidState)
}

func TestBlockedDayClickLeavesSessionUntouched(t *testing.T) {
	blocked := availability.NewSet(dates.MustParse("2025-11-28"))

	s := newSession(t)
	later := testNow.Add(time.Hour)
	require.NoError(t, s.Click(dates.MustParse("2025-11-28"), blocked, later))
	assert.Equal(t, booking.StateDetailsOpen, s.State)
	assert.True(t, s.Range.Empty())
	assert.Equal(t, testNow, s.UpdatedAt)

	// mid-selection the committed start survives a blocked click too
	require.NoError(t, s.Click(dates.MustParse("2025-11-24"), blocked, testNow))
	require.NoError(t, s.Click(dates.MustParse("2025-11-28"), blocked, later))
	assert.Equal(t, "2025-11-24", s.Range.Start.String())
	assert.Nil(t, s.Range.End)
	assert.Equal(t, testNow, s.UpdatedAt)
}

func TestCloneIsIndependent(t *testing.T) {
	s := checkoutSession(t)
	require.ErrorIs(t, s.Submit(testNow), booking.ErrValidationFailed)

	cp := s.Clone()
	require.NoError(t, cp.SetField("email", "guest@example.com", testNow))
	*cp.Range.End = dates.MustParse("2025-12-24")

	assert.Contains(t, s.FieldErrors, "email")
	assert.Equal(t, "2025-11-30", s.Range.End.String())

	require.NoError(t, cp.Close(testNow))
	assert.Empty(t, s.PendingEvents())
	assert.Len(t, cp.PendingEvents(), 1)
}

func TestMonthNavigation(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.NextMonth(testNow))
	assert.Equal(t, dates.MonthCursor{Year: 2025, Month: time.December}, s.Cursor)
	require.NoError(t, s.NextMonth(testNow))
	assert.Equal(t, dates.MonthCursor{Year: 2026, Month: time.January}, s.Cursor)
	require.NoError(t, s.PrevMonth(testNow))
	require.NoError(t, s.PrevMonth(testNow))
	require.NoError(t, s.PrevMonth(testNow))
	assert.Equal(t, dates.MonthCursor{Year: 2025, Month: time.October}, s.Cursor)
}
