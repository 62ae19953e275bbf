package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
)

const (
	keyPrefix = "idem:orders:"
	// DefaultTTL bounds how long a client may replay an order submission.
	DefaultTTL = 24 * time.Hour
)

// Store keeps idempotency records in Redis with a TTL; the first writer of a key wins.
type Store struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewStore(rdb redis.UniversalClient, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

type record struct {
	RequestHash string    `json:"requestHash"`
	OrderID     string    `json:"orderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Store) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(key, raw)
}

func (s *Store) Save(ctx context.Context, rec ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	if rec.Key == "" {
		return nil, errors.New("idempotency key is required")
	}
	value, err := json.Marshal(record{RequestHash: rec.RequestHash, OrderID: rec.OrderID, CreatedAt: rec.CreatedAt.UTC()})
	if err != nil {
		return nil, err
	}
	stored, err := s.rdb.SetNX(ctx, keyPrefix+rec.Key, value, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if stored {
		saved := rec
		return &saved, nil
	}
	existing, err := s.Get(ctx, rec.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("idempotency key %s expired during save", rec.Key)
	}
	if existing.RequestHash != rec.RequestHash || existing.OrderID != rec.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *Store) ensureClient() error {
	if s == nil || s.rdb == nil {
		return errors.New("redis idempotency store not configured")
	}
	return nil
}

func decode(key string, raw []byte) (*ports.IdempotencyRecord, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode idempotency record %s: %w", key, err)
	}
	return &ports.IdempotencyRecord{Key: key, RequestHash: r.RequestHash, OrderID: r.OrderID, CreatedAt: r.CreatedAt}, nil
}

var _ ports.IdempotencyStore = (*Store)(nil)
