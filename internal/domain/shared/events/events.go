package events

import "time"

type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

// Clone returns a recorder holding the same pending events with its own
// backing storage, so aggregate copies never share recorded state.
func (r EventRecorder) Clone() EventRecorder {
	if len(r.pending) == 0 {
		return EventRecorder{}
	}
	cp := make([]DomainEvent, len(r.pending))
	copy(cp, r.pending)
	return EventRecorder{pending: cp}
}
