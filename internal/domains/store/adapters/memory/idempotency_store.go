package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore provides an in-memory implementation for development and tests.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]ports.IdempotencyRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewIdempotencyStore constructs an empty store whose records expire after ttl.
// A non-positive ttl keeps records forever.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		records: map[string]ports.IdempotencyRecord{},
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns the stored record for the provided key, or nil when absent or expired.
func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok || s.expired(record) {
		return nil, nil
	}
	saved := record
	return &saved, nil
}

// Save persists the record or returns the existing live record if it matches.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[record.Key]; ok && !s.expired(existing) {
		saved := existing
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &saved, ports.ErrIdempotencyConflict
		}
		return &saved, nil
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	s.records[record.Key] = record
	saved := record
	return &saved, nil
}

func (s *IdempotencyStore) expired(record ports.IdempotencyRecord) bool {
	return s.ttl > 0 && !s.now().Before(record.CreatedAt.Add(s.ttl))
}
