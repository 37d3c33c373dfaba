package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tubo/internal/domain/shared/events"
)

// EventRecord is one domain event staged for publication. Records stay in the
// store until the worker marks them sent; failures reschedule via NextRetry.
type EventRecord struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
	Attempts   int
	NextRetry  time.Time
}

// Store persists staged events and hands them out one at a time.
type Store interface {
	Add(ctx context.Context, rec EventRecord) error
	// Claim returns the oldest due unsent record, or nil when none is ready.
	Claim(ctx context.Context) (*EventRecord, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error
}

// Stage drains the recorder's pending events into the store. The JSON payload
// is the event struct itself; the envelope is added at publish time.
func Stage(ctx context.Context, store Store, rec *events.EventRecorder) error {
	for _, evt := range rec.PendingEvents() {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("outbox: encode %s: %w", evt.EventName(), err)
		}
		record := EventRecord{
			ID:         uuid.NewString(),
			Name:       evt.EventName(),
			Aggregate:  evt.AggregateID(),
			Payload:    payload,
			OccurredAt: evt.OccurredAt(),
		}
		if err := store.Add(ctx, record); err != nil {
			return err
		}
	}
	rec.ClearEvents()
	return nil
}
