package bookingflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubo/internal/app/outbox"
	"tubo/internal/app/schedule"
	"tubo/internal/domain/availability"
	"tubo/internal/domain/booking"
	"tubo/internal/domain/calendar"
	"tubo/internal/domain/checkout"
	"tubo/internal/domain/listings"
	"tubo/internal/domain/pricing"
	"tubo/internal/domain/shared/dates"
	"tubo/internal/domain/shared/money"
)

var ErrNotSessionOwner = errors.New("bookingflow: session belongs to another guest")

// Service drives booking sessions end to end: it owns every interaction a
// guest makes between opening a car's details and leaving the confirmation
// screen, plus the deferred payment-completion task.
type Service struct {
	Sessions     booking.SessionRepository
	Cars         listings.Repository
	Availability availability.Source
	History      booking.History
	Outbox       outbox.Store
	Scheduler    schedule.Scheduler
	PaymentDelay time.Duration
	Logger       *slog.Logger
	Now          func() time.Time

	mu      sync.Mutex
	pending map[string]schedule.Handle
}

// View is the session snapshot handed to the transport layer: the raw session
// plus the rendered month grid.
type View struct {
	Session *booking.Session
	Grid    calendar.MonthGrid
}

// Open starts a details-view session for a car.
func (s *Service) Open(ctx context.Context, guestID string, carID listings.CarID) (*View, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if _, err := s.Cars.ByID(ctx, carID); err != nil {
		return nil, err
	}
	sess, err := booking.NewSession(uuid.NewString(), guestID, string(carID), dates.FromTime(s.now()), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("booking session opened", "session_id", sess.ID, "car_id", carID, "guest_id", guestID)
	}
	return s.view(ctx, sess)
}

// Get returns the current snapshot without mutating anything.
func (s *Service) Get(ctx context.Context, guestID, sessionID string) (*View, error) {
	sess, err := s.load(ctx, guestID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess)
}

// Click applies one calendar day click.
func (s *Service) Click(ctx context.Context, guestID, sessionID string, day dates.Date) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, unavailable availability.Set) error {
		return sess.Click(day, unavailable, s.now())
	})
}

// PrevMonth flips the calendar cursor back.
func (s *Service) PrevMonth(ctx context.Context, guestID, sessionID string) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.PrevMonth(s.now())
	})
}

// NextMonth flips the calendar cursor forward.
func (s *Service) NextMonth(ctx context.Context, guestID, sessionID string) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.NextMonth(s.now())
	})
}

// Proceed enters checkout after the range gate passes.
func (s *Service) Proceed(ctx context.Context, guestID, sessionID string) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, unavailable availability.Set) error {
		return sess.Proceed(unavailable, s.now())
	})
}

// Back leaves checkout for the details view, selection intact.
func (s *Service) Back(ctx context.Context, guestID, sessionID string) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.Back(s.now())
	})
}

// SelectPlan picks the rate plan on the checkout view.
func (s *Service) SelectPlan(ctx context.Context, guestID, sessionID string, plan pricing.RatePlan) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.SelectPlan(plan, s.now())
	})
}

// SelectPayment switches the payment method.
func (s *Service) SelectPayment(ctx context.Context, guestID, sessionID string, method checkout.PaymentMethod) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.SelectPayment(method, s.now())
	})
}

// SetField writes one checkout form field.
func (s *Service) SetField(ctx context.Context, guestID, sessionID, field, value string) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.SetField(field, value, s.now())
	})
}

// Quote prices the current selection in the requested display currency.
type Quote struct {
	Totals   pricing.Totals `json:"totals"`
	Currency string         `json:"currency"`
	// Converted mirrors Totals.Total in the display currency.
	Converted int64 `json:"converted_total"`
}

// PriceQuote computes the checkout breakdown for the session's range and plan.
func (s *Service) PriceQuote(ctx context.Context, guestID, sessionID, currency string) (*Quote, error) {
	sess, err := s.load(ctx, guestID, sessionID)
	if err != nil {
		return nil, err
	}
	car, err := s.Cars.ByID(ctx, listings.CarID(sess.CarID))
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = pricing.BaseCurrency
	}
	totals := pricing.ComputeTotals(car.PricePerDayIDR, sess.Range.Days(), sess.Plan)
	return &Quote{
		Totals:    totals,
		Currency:  currency,
		Converted: pricing.Convert(totals.Total, currency),
	}, nil
}

// Submit validates the checkout form. A clean form enters processing and arms
// the deferred payment completion; a dirty one keeps the session editable with
// its field errors set.
func (s *Service) Submit(ctx context.Context, guestID, sessionID string) (*booking.Session, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	sess, err := s.load(ctx, guestID, sessionID)
	if err != nil {
		return nil, err
	}
	submitErr := sess.Submit(s.now())
	if submitErr != nil && !errors.Is(submitErr, booking.ErrValidationFailed) {
		return nil, submitErr
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if submitErr != nil {
		return sess, submitErr
	}
	s.armPayment(sess.ID)
	if s.Logger != nil {
		s.Logger.Info("payment processing started", "session_id", sess.ID, "delay", s.paymentDelay())
	}
	return sess, nil
}

// Close tears the session down and disarms any pending payment task.
func (s *Service) Close(ctx context.Context, guestID, sessionID string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	sess, err := s.load(ctx, guestID, sessionID)
	if err != nil {
		return err
	}
	s.disarmPayment(sess.ID)
	if err := sess.Close(s.now()); err != nil {
		return err
	}
	if err := outbox.Stage(ctx, s.Outbox, &sess.EventRecorder); err != nil {
		return err
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("booking session closed", "session_id", sess.ID)
	}
	return nil
}

// Navigate leaves the confirmation screen.
func (s *Service) Navigate(ctx context.Context, guestID, sessionID string) (*View, error) {
	return s.mutate(ctx, guestID, sessionID, func(sess *booking.Session, _ availability.Set) error {
		return sess.Navigate(s.now())
	})
}

// armPayment schedules the simulated payment completion, replacing any
// previous timer for the session.
func (s *Service) armPayment(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[string]schedule.Handle)
	}
	if prev, ok := s.pending[sessionID]; ok {
		prev.Cancel()
	}
	s.pending[sessionID] = s.Scheduler.Schedule(s.paymentDelay(), func() {
		s.completePayment(sessionID)
	})
}

func (s *Service) disarmPayment(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.pending[sessionID]; ok {
		handle.Cancel()
		delete(s.pending, sessionID)
	}
}

// completePayment runs on the scheduler goroutine after the processing delay.
// It creates the booking, appends it to the guest's history, stages the
// confirmation event, and lands the session in the confirmed state.
func (s *Service) completePayment(sessionID string) {
	ctx := context.Background()
	s.mu.Lock()
	delete(s.pending, sessionID)
	s.mu.Unlock()

	sess, err := s.Sessions.ByID(ctx, sessionID)
	if err != nil {
		s.logError("payment completion: session lookup", sessionID, err)
		return
	}
	car, err := s.Cars.ByID(ctx, listings.CarID(sess.CarID))
	if err != nil {
		s.logError("payment completion: car lookup", sessionID, err)
		return
	}
	totals := pricing.ComputeTotals(car.PricePerDayIDR, sess.Range.Days(), sess.Plan)
	total, err := money.New(totals.Total, pricing.BaseCurrency)
	if err != nil {
		s.logError("payment completion: total", sessionID, err)
		return
	}
	bkg, err := booking.NewBooking(booking.CreateParams{
		ID:         booking.BookingID(uuid.NewString()),
		CarID:      sess.CarID,
		GuestID:    sess.GuestID,
		StartDate:  *sess.Range.Start,
		EndDate:    *sess.Range.End,
		TotalPrice: total,
		BookedAt:   s.now(),
	})
	if err != nil {
		s.logError("payment completion: booking", sessionID, err)
		return
	}
	if err := s.History.Append(ctx, bkg); err != nil {
		s.logError("payment completion: history", sessionID, err)
		return
	}
	if err := outbox.Stage(ctx, s.Outbox, &bkg.EventRecorder); err != nil {
		s.logError("payment completion: outbox", sessionID, err)
	}
	if err := sess.Confirm(bkg.ID, s.now()); err != nil {
		// The session moved on (typically closed) between submit and the
		// timer firing; the booking still stands.
		s.logError("payment completion: confirm", sessionID, err)
		return
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		s.logError("payment completion: save", sessionID, err)
		return
	}
	if s.Logger != nil {
		s.Logger.Info("booking confirmed",
			"session_id", sessionID,
			"booking_id", bkg.ID,
			"reference", bkg.ReferenceCode)
	}
}

func (s *Service) mutate(ctx context.Context, guestID, sessionID string, apply func(*booking.Session, availability.Set) error) (*View, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	sess, err := s.load(ctx, guestID, sessionID)
	if err != nil {
		return nil, err
	}
	unavailable, err := s.Availability.UnavailableDates(ctx, sess.CarID)
	if err != nil {
		return nil, err
	}
	if err := apply(sess, unavailable); err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &View{Session: sess, Grid: calendar.BuildMonth(sess.Cursor, sess.Range, unavailable)}, nil
}

func (s *Service) load(ctx context.Context, guestID, sessionID string) (*booking.Session, error) {
	sess, err := s.Sessions.ByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.GuestID != guestID {
		return nil, ErrNotSessionOwner
	}
	return sess, nil
}

func (s *Service) view(ctx context.Context, sess *booking.Session) (*View, error) {
	unavailable, err := s.Availability.UnavailableDates(ctx, sess.CarID)
	if err != nil {
		return nil, err
	}
	return &View{Session: sess, Grid: calendar.BuildMonth(sess.Cursor, sess.Range, unavailable)}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) paymentDelay() time.Duration {
	if s.PaymentDelay > 0 {
		return s.PaymentDelay
	}
	return 3 * time.Second
}

func (s *Service) logError(stage, sessionID string, err error) {
	if s.Logger != nil {
		s.Logger.Error(stage, "session_id", sessionID, "error", err)
	}
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Sessions == nil:
		return errors.New("bookingflow: session repository required")
	case s.Cars == nil:
		return errors.New("bookingflow: car repository required")
	case s.Availability == nil:
		return errors.New("bookingflow: availability source required")
	case s.History == nil:
		return errors.New("bookingflow: booking history required")
	case s.Outbox == nil:
		return errors.New("bookingflow: outbox store required")
	case s.Scheduler == nil:
		return errors.New("bookingflow: scheduler required")
	default:
		return nil
	}
}
