package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProcessingMarker is stored while the first request for a key is running.
const ProcessingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet claims key with SETNX. When the key is already claimed the
// stored value is returned with exists set.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = ProcessingMarker
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; report it as in flight.
		return true, []byte(ProcessingMarker), nil
	}
	if err != nil {
		return false, nil, err
	}

	return true, existing, nil
}

// Update replaces the stored value with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Release deletes key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
