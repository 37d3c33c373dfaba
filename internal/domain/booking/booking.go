package booking

import (
	"context"
	"errors"
	"time"

	"tubo/internal/domain/shared/dates"
	"tubo/internal/domain/shared/events"
	"tubo/internal/domain/shared/money"
)

var (
	ErrIncompleteRange = errors.New("booking: date range must be complete")
	ErrInvalidTotal    = errors.New("booking: total must be positive")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrBookingNotFound = errors.New("booking: not found")
)

type BookingID string

// Status tracks where a trip sits in its life. New bookings always start
// upcoming.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking is the terminal artifact of a successful checkout. ReferenceCode is
// the short human-shareable token shown to the renter, distinct from ID.
type Booking struct {
	ID            BookingID
	ReferenceCode string
	CarID         string
	GuestID       string
	StartDate     dates.Date
	EndDate       dates.Date
	TotalPrice    money.Money
	Status        Status
	BookedAt      time.Time
	events.EventRecorder
}

// CreateParams collects the inputs for a confirmed booking.
type CreateParams struct {
	ID            BookingID
	ReferenceCode string
	CarID         string
	GuestID       string
	StartDate     dates.Date
	EndDate       dates.Date
	TotalPrice    money.Money
	BookedAt      time.Time
}

// NewBooking validates and builds the record, recording the confirmation
// event.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.StartDate.IsZero() || params.EndDate.IsZero() || params.EndDate.Before(params.StartDate) {
		return nil, ErrIncompleteRange
	}
	if !params.TotalPrice.IsPositive() {
		return nil, ErrInvalidTotal
	}
	ref := params.ReferenceCode
	if ref == "" {
		ref = NewReferenceCode()
	}
	b := &Booking{
		ID:            params.ID,
		ReferenceCode: ref,
		CarID:         params.CarID,
		GuestID:       params.GuestID,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		TotalPrice:    params.TotalPrice,
		Status:        StatusUpcoming,
		BookedAt:      params.BookedAt.UTC(),
	}
	b.Record(BookingConfirmed{
		BookingID: b.ID,
		CarID:     b.CarID,
		GuestID:   b.GuestID,
		Start:     b.StartDate.String(),
		End:       b.EndDate.String(),
		Total:     b.TotalPrice,
		At:        b.BookedAt,
	})
	return b, nil
}

// History is the session-level booking list: append-only, newest first.
type History interface {
	Append(ctx context.Context, b *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}
