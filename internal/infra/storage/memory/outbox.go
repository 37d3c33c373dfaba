package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	appoutbox "tubo/internal/app/outbox"
)

var errUnknownRecord = errors.New("memory: unknown outbox record")

// OutboxStore stages events in memory for the publishing worker.
type OutboxStore struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	claimed map[string]bool
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{claimed: make(map[string]bool)}
}

func (s *OutboxStore) Add(ctx context.Context, rec appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Claim hands out the oldest due record. It stays in the store until the
// worker marks it sent, so a crashed worker loses nothing.
func (s *OutboxStore) Claim(ctx context.Context) (*appoutbox.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range s.records {
		rec := &s.records[i]
		if s.claimed[rec.ID] {
			continue
		}
		if !rec.NextRetry.IsZero() && rec.NextRetry.After(now) {
			continue
		}
		s.claimed[rec.ID] = true
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			delete(s.claimed, id)
			return nil
		}
	}
	return errUnknownRecord
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Attempts++
			s.records[i].NextRetry = retryAt
			delete(s.claimed, id)
			return nil
		}
	}
	return errUnknownRecord
}

// Pending reports how many records await publication.
func (s *OutboxStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var _ appoutbox.Store = (*OutboxStore)(nil)
