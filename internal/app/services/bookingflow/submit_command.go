package bookingflow

import (
	"context"
	"errors"

	"tubo/internal/app/commands"
	"tubo/internal/app/middleware"
	"tubo/internal/domain/booking"
)

const SubmitCommandKey = "booking.checkout.submit"

// SubmitCommand routes a checkout submit through the command bus so the
// idempotency middleware can absorb client retries of the same attempt.
type SubmitCommand struct {
	SessionID   string
	GuestID     string
	Idempotency string
}

func (SubmitCommand) Key() string { return SubmitCommandKey }

func (c SubmitCommand) Guest() string { return c.GuestID }

func (c SubmitCommand) IdempotencyKey() string { return c.Idempotency }

func (c SubmitCommand) ResultPrototype() any { return &SubmitResult{} }

// SubmitResult is the replay-safe submit outcome. Validation failure is a
// result, not an error, so a retried dirty submit reproduces the same field
// errors instead of a cached opaque error string.
type SubmitResult struct {
	SessionID   string            `json:"session_id"`
	Processing  bool              `json:"processing"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// SubmitHandler adapts the flow service to the command bus.
type SubmitHandler struct {
	Flow *Service
}

func (h SubmitHandler) Handle(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error) {
	sess, err := h.Flow.Submit(ctx, cmd.GuestID, cmd.SessionID)
	if err != nil {
		if errors.Is(err, booking.ErrValidationFailed) {
			return &SubmitResult{
				SessionID:   sess.ID,
				FieldErrors: sess.FieldErrors,
			}, nil
		}
		return nil, err
	}
	return &SubmitResult{SessionID: sess.ID, Processing: sess.Processing}, nil
}

// RegisterSubmit wires the handler into a bus.
func RegisterSubmit(bus *commands.InMemoryBus, flow *Service) {
	commands.RegisterHandler[SubmitCommand, *SubmitResult](bus, SubmitCommandKey, SubmitHandler{Flow: flow})
}

// GuestScoped is implemented by commands issued on behalf of a guest.
type GuestScoped interface {
	Guest() string
}

// RequireGuest rejects guest-scoped commands that arrive without an
// authenticated guest.
func RequireGuest() middleware.Authorizer {
	return middleware.AuthorizerFunc(func(ctx context.Context, message any) error {
		if scoped, ok := message.(GuestScoped); ok && scoped.Guest() == "" {
			return booking.ErrGuestRequired
		}
		return nil
	})
}
