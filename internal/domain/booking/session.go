package booking

import (
	"context"
	"errors"
	"time"

	"tubo/internal/domain/availability"
	"tubo/internal/domain/calendar"
	"tubo/internal/domain/checkout"
	"tubo/internal/domain/pricing"
	"tubo/internal/domain/shared/daterange"
	"tubo/internal/domain/shared/dates"
	"tubo/internal/domain/shared/events"
)

var (
	ErrInvalidState     = errors.New("booking: invalid session state transition")
	ErrProcessing       = errors.New("booking: payment processing in progress")
	ErrRangeIncomplete  = errors.New("booking: date range incomplete")
	ErrRangeUnavailable = errors.New("booking: date range overlaps unavailable days")
	ErrValidationFailed = errors.New("booking: checkout form invalid")
	ErrUnknownField     = errors.New("booking: unknown checkout field")
	ErrSessionNotFound  = errors.New("booking: session not found")
)

// SessionState is the booking flow position. The cycle is Browsing →
// DetailsOpen → DatesSelecting → CheckoutOpen → Confirmed → Browsing.
type SessionState string

const (
	StateBrowsing       SessionState = "BROWSING"
	StateDetailsOpen    SessionState = "DETAILS_OPEN"
	StateDatesSelecting SessionState = "DATES_SELECTING"
	StateCheckoutOpen   SessionState = "CHECKOUT_OPEN"
	StateConfirmed      SessionState = "CONFIRMED"
)

// Session drives one guest's booking flow for one car. Every transition runs
// synchronously in response to a discrete interaction; the only asynchronous
// step is the simulated payment completion, which the flow service schedules
// and feeds back through Confirm.
type Session struct {
	ID      string
	GuestID string
	CarID   string
	State   SessionState

	Cursor dates.MonthCursor
	Range  daterange.DateRange

	Plan        pricing.RatePlan
	Payment     checkout.PaymentMethod
	Form        checkout.Form
	FieldErrors map[string]string

	// Processing blocks further checkout input between submit and the
	// scheduled payment completion.
	Processing bool

	BookingID BookingID
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

// NewSession opens a details view for a car. The calendar cursor starts on
// the month containing today; a selection start, once made, re-anchors it.
func NewSession(id, guestID string, carID string, today dates.Date, now time.Time) (*Session, error) {
	if guestID == "" {
		return nil, ErrGuestRequired
	}
	now = now.UTC()
	return &Session{
		ID:          id,
		GuestID:     guestID,
		CarID:       carID,
		State:       StateDetailsOpen,
		Cursor:      calendar.InitialCursor(daterange.DateRange{}, today),
		Plan:        pricing.PlanNonRefundable,
		Payment:     checkout.PaymentCard,
		FieldErrors: map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Click feeds a day click into the range-selection protocol. Valid while the
// details view is open; the calendar itself never errors, so the only
// failures here are state guards. A click the calendar absorbs (a blocked
// day) leaves the session completely untouched.
func (s *Session) Click(d dates.Date, unavailable availability.Set, now time.Time) error {
	if err := s.requireSelecting(); err != nil {
		return err
	}
	next, accepted := calendar.ApplyClick(s.Range, d, unavailable)
	if !accepted {
		return nil
	}
	s.Range = next
	s.State = StateDatesSelecting
	s.touch(now)
	return nil
}

// PrevMonth moves the grid cursor back one month, independent of the range.
func (s *Session) PrevMonth(now time.Time) error {
	if err := s.requireSelecting(); err != nil {
		return err
	}
	s.Cursor = s.Cursor.Prev()
	s.touch(now)
	return nil
}

// NextMonth moves the grid cursor forward one month.
func (s *Session) NextMonth(now time.Time) error {
	if err := s.requireSelecting(); err != nil {
		return err
	}
	s.Cursor = s.Cursor.Next()
	s.touch(now)
	return nil
}

// Proceed gates entry into checkout: the committed range must be complete and
// fully available. This is where straddled unavailable days are caught, since
// the click protocol itself only rejects the clicked day.
func (s *Session) Proceed(unavailable availability.Set, now time.Time) error {
	if err := s.requireSelecting(); err != nil {
		return err
	}
	if !s.Range.Complete() {
		return ErrRangeIncomplete
	}
	if !availability.IsRangeAvailable(s.Range, unavailable) {
		return ErrRangeUnavailable
	}
	s.State = StateCheckoutOpen
	s.Form = checkout.Form{}
	s.FieldErrors = map[string]string{}
	s.Plan = pricing.PlanNonRefundable
	s.Payment = checkout.PaymentCard
	s.touch(now)
	return nil
}

// SelectPlan picks the rate plan. Idempotent; never mutates the range.
func (s *Session) SelectPlan(plan pricing.RatePlan, now time.Time) error {
	if err := s.requireCheckout(); err != nil {
		return err
	}
	if !plan.Valid() {
		return pricing.ErrUnknownPlan
	}
	s.Plan = plan
	s.touch(now)
	return nil
}

// SelectPayment switches between card and the alternative payment method.
func (s *Session) SelectPayment(method checkout.PaymentMethod, now time.Time) error {
	if err := s.requireCheckout(); err != nil {
		return err
	}
	if method != checkout.PaymentCard && method != checkout.PaymentAlternative {
		return ErrUnknownField
	}
	s.Payment = method
	s.touch(now)
	return nil
}

// SetField updates one form field. A keystroke on a previously-errored field
// clears only that field's error entry.
func (s *Session) SetField(field, value string, now time.Time) error {
	if err := s.requireCheckout(); err != nil {
		return err
	}
	if !s.Form.Set(field, value) {
		return ErrUnknownField
	}
	delete(s.FieldErrors, field)
	s.touch(now)
	return nil
}

// Submit validates the form and, when clean, enters the processing phase.
// On failure the field errors are retained on the session for highlighting.
func (s *Session) Submit(now time.Time) error {
	if err := s.requireCheckout(); err != nil {
		return err
	}
	result := checkout.Validate(s.Form, s.Payment)
	if !result.Valid {
		s.FieldErrors = result.FieldErrors
		s.touch(now)
		return ErrValidationFailed
	}
	s.FieldErrors = map[string]string{}
	s.Processing = true
	s.touch(now)
	return nil
}

// Confirm lands the scheduled payment completion: the session leaves
// processing and pins the created booking.
func (s *Session) Confirm(id BookingID, now time.Time) error {
	if s.State != StateCheckoutOpen || !s.Processing {
		return ErrInvalidState
	}
	s.Processing = false
	s.State = StateConfirmed
	s.BookingID = id
	s.touch(now)
	return nil
}

// Back returns from checkout to the details view, preserving the range.
func (s *Session) Back(now time.Time) error {
	if err := s.requireCheckout(); err != nil {
		return err
	}
	s.State = StateDetailsOpen
	s.touch(now)
	return nil
}

// Close tears the session down: the range is discarded and the flow returns
// to browsing. Closing mid-processing is permitted (it is the teardown path
// that also cancels the scheduled payment task).
func (s *Session) Close(now time.Time) error {
	switch s.State {
	case StateDetailsOpen, StateDatesSelecting, StateCheckoutOpen:
	default:
		return ErrInvalidState
	}
	s.Processing = false
	s.Range = daterange.DateRange{}
	s.State = StateBrowsing
	s.Record(SessionClosed{SessionID: s.ID, CarID: s.CarID, At: now.UTC()})
	s.touch(now)
	return nil
}

// Navigate leaves the confirmation screen; only here are car selection and
// range state finally cleared.
func (s *Session) Navigate(now time.Time) error {
	if s.State != StateConfirmed {
		return ErrInvalidState
	}
	s.Range = daterange.DateRange{}
	s.State = StateBrowsing
	s.touch(now)
	return nil
}

func (s *Session) requireSelecting() error {
	if s.Processing {
		return ErrProcessing
	}
	if s.State != StateDetailsOpen && s.State != StateDatesSelecting {
		return ErrInvalidState
	}
	return nil
}

func (s *Session) requireCheckout() error {
	if s.Processing {
		return ErrProcessing
	}
	if s.State != StateCheckoutOpen {
		return ErrInvalidState
	}
	return nil
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Clone returns an independent copy. Repositories hand out and store clones,
// so the payment-completion goroutine and request handlers never mutate a
// session another goroutine is reading.
func (s *Session) Clone() *Session {
	cp := *s
	if s.Range.Start != nil {
		start := *s.Range.Start
		cp.Range.Start = &start
	}
	if s.Range.End != nil {
		end := *s.Range.End
		cp.Range.End = &end
	}
	cp.FieldErrors = make(map[string]string, len(s.FieldErrors))
	for field, msg := range s.FieldErrors {
		cp.FieldErrors[field] = msg
	}
	cp.EventRecorder = s.EventRecorder.Clone()
	return &cp
}

// SessionRepository stores active sessions.
type SessionRepository interface {
	ByID(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
