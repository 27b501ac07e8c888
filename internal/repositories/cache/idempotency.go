// Package cache holds short-lived key/value state that sits beside the ledger,
// such as idempotency reservations for voucher creation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/ngo_fund_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ngo_ledger:idem:"

// RedisIdempotencyStore keeps reservations in Redis so every API replica sees them.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ portsrepo.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// NewRedisIdempotencyStore creates a store whose keys expire after ttl.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: ttl}
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, fingerprint string) (portsrepo.IdempotencyRecord, bool, error) {
	pending, err := json.Marshal(portsrepo.IdempotencyRecord{Fingerprint: fingerprint})
	if err != nil {
		return portsrepo.IdempotencyRecord{}, false, fmt.Errorf("encoding idempotency record: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl).Result()
		if err != nil {
			return portsrepo.IdempotencyRecord{}, false, apperrors.NewStorageError("failed to reserve idempotency key", err)
		}
		if ok {
			return portsrepo.IdempotencyRecord{}, true, nil
		}

		raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET.
			continue
		}
		if err != nil {
			return portsrepo.IdempotencyRecord{}, false, apperrors.NewStorageError("failed to read idempotency key", err)
		}
		var rec portsrepo.IdempotencyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return portsrepo.IdempotencyRecord{}, false, apperrors.NewStorageError("corrupt idempotency record", err)
		}
		return rec, false, nil
	}
	return portsrepo.IdempotencyRecord{}, false, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, record portsrepo.IdempotencyRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return apperrors.NewStorageError("failed to complete idempotency key", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return apperrors.NewStorageError("failed to release idempotency key", err)
	}
	return nil
}

type reservation struct {
	record  portsrepo.IdempotencyRecord
	expires time.Time
}

// MemoryIdempotencyStore is the single-process variant used when Redis is not configured.
type MemoryIdempotencyStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]reservation
}

var _ portsrepo.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

// NewMemoryIdempotencyStore creates a store whose keys expire after ttl.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{ttl: ttl, now: time.Now, items: map[string]reservation{}}
}

func (s *MemoryIdempotencyStore) live(key string) (reservation, bool) {
	r, ok := s.items[key]
	if ok && s.ttl > 0 && !s.now().Before(r.expires) {
		delete(s.items, key)
		return reservation{}, false
	}
	return r, ok
}

func (s *MemoryIdempotencyStore) Reserve(ctx context.Context, key string, fingerprint string) (portsrepo.IdempotencyRecord, bool, error) {
	if key == "" {
		return portsrepo.IdempotencyRecord{}, false, fmt.Errorf("%w: empty idempotency key", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.live(key); ok {
		return r.record, false, nil
	}
	s.items[key] = reservation{
		record:  portsrepo.IdempotencyRecord{Fingerprint: fingerprint},
		expires: s.now().Add(s.ttl),
	}
	return portsrepo.IdempotencyRecord{}, true, nil
}

func (s *MemoryIdempotencyStore) Complete(ctx context.Context, key string, record portsrepo.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = reservation{record: record, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
