package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRequestInFlight is returned when another request holding the same
// idempotency key has not finished yet.
var ErrRequestInFlight = errors.New("a request with this idempotency key is still being processed")

const (
	idempotencyInFlight = "in_flight"

	// A crashed request releases its key after this long.
	idempotencyLockTTL = time.Minute
)

// IdempotencyRecord is the stored outcome of a completed write request.
type IdempotencyRecord struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

type IdempotencyStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIdempotencyStore(redisClient *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Begin claims key for the current request. It returns (nil, nil) when the
// claim succeeds, the stored record when the request already completed, or
// ErrRequestInFlight.
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (*IdempotencyRecord, error) {
	claimed, err := s.redisClient.SetNX(ctx, key, idempotencyInFlight, idempotencyLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, nil
	}

	raw, err := s.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// The other request released the key between SETNX and GET.
		return nil, ErrRequestInFlight
	}
	if err != nil {
		return nil, err
	}
	if raw == idempotencyInFlight {
		return nil, ErrRequestInFlight
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Complete stores the outcome under key for the configured TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, record *IdempotencyRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.redisClient.Set(ctx, key, payload, s.ttl).Err()
}

// Release drops the claim so the client may retry, e.g. after a server error.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.redisClient.Del(ctx, key).Err()
}
