package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "tubo/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Producer is the publish side the worker drains into.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker polls the outbox store and publishes staged events wrapped in a
// CloudEvents JSON envelope. One event per tick; publish failures reschedule
// the record with backoff and never stop the loop.
type Worker struct {
	Store       appoutbox.Store
	Producer    Producer
	Logger      *slog.Logger
	Interval    time.Duration
	TopicPrefix string
	Source      string
	Backoff     []time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// ProcessOnce claims and publishes at most one due record.
func (w *Worker) ProcessOnce(ctx context.Context) error {
	rec, err := w.Store.Claim(ctx)
	if err != nil || rec == nil {
		return err
	}
	payload, headers, err := w.envelope(rec)
	if err != nil {
		return w.retry(ctx, rec, err)
	}
	if err := w.Producer.Publish(ctx, w.topicFor(rec.Name), rec.Aggregate, payload, headers); err != nil {
		return w.retry(ctx, rec, err)
	}
	return w.Store.MarkSent(ctx, rec.ID)
}

func (w *Worker) retry(ctx context.Context, rec *appoutbox.EventRecord, cause error) error {
	if w.Logger != nil {
		w.Logger.Warn("outbox publish failed",
			slog.String("event", rec.Name),
			slog.Int("attempts", rec.Attempts),
			slog.String("error", cause.Error()))
	}
	return w.Store.MarkFailed(ctx, rec.ID, w.nextRetry(rec.Attempts), cause.Error())
}

func (w *Worker) envelope(rec *appoutbox.EventRecord) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(rec.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            rec.Name + ".v1",
		"source":          w.source(),
		"time":            rec.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range rec.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

// topicFor maps "booking.confirmed" to "booking.events.v1".
func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return w.TopicPrefix + base + ".events.v1"
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://tubo"
}

// NopProducer discards events; used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, string, string, []byte, map[string]string) error {
	return nil
}
