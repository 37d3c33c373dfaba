package booking

import (
	"time"

	"tubo/internal/domain/shared/money"
)

// BookingConfirmed is emitted once per successful checkout.
type BookingConfirmed struct {
	BookingID BookingID
	CarID     string
	GuestID   string
	Start     string
	End       string
	Total     money.Money
	At        time.Time
}

func (e BookingConfirmed) EventName() string { return "booking.confirmed" }

func (e BookingConfirmed) AggregateID() string { return string(e.BookingID) }

func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

// SessionClosed is emitted when a guest abandons a details view, so interest
// signals can be mined later.
type SessionClosed struct {
	SessionID string
	CarID     string
	At        time.Time
}

func (e SessionClosed) EventName() string { return "booking.session_closed" }

func (e SessionClosed) AggregateID() string { return e.SessionID }

func (e SessionClosed) OccurredAt() time.Time { return e.At }
