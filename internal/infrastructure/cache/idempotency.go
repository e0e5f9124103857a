package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEntryNotFound is returned by Load when the key has expired or never existed.
var ErrEntryNotFound = errors.New("idempotency entry not found")

// IdempotencyEntry is the state kept per (method, route, actor, request id).
type IdempotencyEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdempotencyStore keeps request outcomes in Redis.
type IdempotencyStore struct {
	rdb     *redis.Client
	lockTTL time.Duration
}

// NewIdempotencyStore holds in-progress reservations for lockTTL.
func NewIdempotencyStore(rdb *redis.Client, lockTTL time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, lockTTL: lockTTL}
}

// Reserve stores e under key only if the key is free.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, e IdempotencyEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, s.lockTTL).Result()
}

func (s *IdempotencyStore) Load(ctx context.Context, key string) (IdempotencyEntry, error) {
	var e IdempotencyEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, ErrEntryNotFound
	}
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(v, &e); err != nil {
		return e, err
	}
	return e, nil
}

// Complete overwrites the reservation with the final response for ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, e IdempotencyEntry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

// Release drops a reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// LockTTL is how long an unfinished reservation blocks retries.
func (s *IdempotencyStore) LockTTL() time.Duration { return s.lockTTL }
