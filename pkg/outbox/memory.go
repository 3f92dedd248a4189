package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore is a bounded in-process outbox. Appending never blocks: when
// full, the oldest pending event is dropped. Sent events are forgotten.
type MemoryStore struct {
	log        *slog.Logger
	capacity   int
	maxRetries int

	mu     sync.Mutex
	nextID int64
	events []*Event
}

func NewMemoryStore(log *slog.Logger, capacity, maxRetries int) *MemoryStore {
	return &MemoryStore{log: log, capacity: capacity, maxRetries: maxRetries}
}

func (s *MemoryStore) Append(e Event) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 && len(s.events) >= s.capacity {
		s.log.Warn("outbox full, dropping oldest event", "event_id", s.events[0].ID, "type", s.events[0].Type)
		s.events = s.events[1:]
	}

	s.nextID++
	e.ID = s.nextID
	e.Status = StatusPending
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.events = append(s.events, &e)
	return e.ID
}

// Len counts events not yet sent or given up on.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func (s *MemoryStore) LockBatch(_ context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var batch []Event
	for _, e := range s.events {
		if len(batch) >= batchSize {
			break
		}
		expired := e.Status == StatusInProgress && now.After(e.LeaseUntil)
		if e.Status != StatusPending && !expired {
			continue
		}
		e.Status = StatusInProgress
		e.RelayID = relayID
		e.LeaseUntil = now.Add(lease)
		batch = append(batch, *e)
	}
	return batch, nil
}

func (s *MemoryStore) MarkSent(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sent := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		sent[id] = struct{}{}
	}
	kept := s.events[:0]
	for _, e := range s.events {
		if _, ok := sent[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return nil
}

// MarkFailed puts the event back in the queue until it has failed
// maxRetries times, after which it is dropped.
func (s *MemoryStore) MarkFailed(_ context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.events {
		if e.ID != id {
			continue
		}
		e.RetryCount++
		e.LastError = errMsg
		if e.RetryCount >= s.maxRetries {
			s.log.Error("outbox event dropped after retries", "event_id", id, "type", e.Type, "err", errMsg)
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
		e.Status = StatusPending
		return nil
	}
	return nil
}
