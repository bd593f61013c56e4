package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemPrefix = "stockledger:idem:"

	// placeholder marks a key claimed by an in-flight request before
	// its final response is known.
	placeholder = "processing"
)

// IdempotencyStore implements usecase.IdempotencyStore on Redis. It
// deduplicates HTTP retries; the movements table's unique idempotency
// key remains the durable guarantee underneath it.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet claims the key if it is unseen and otherwise returns the
// stored response. A nil response claims the key with a placeholder.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := idemPrefix + key

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		return true, existing, nil
	case !errors.Is(err, redis.Nil):
		return false, nil, err
	}

	value := any(placeholder)
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !set {
		// Lost the race to a concurrent request with the same key.
		existing, err := s.client.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil, err
		}
		return true, existing, nil
	}

	return false, nil, nil
}

// Update replaces the claimed key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, idemPrefix+key, response, ttl).Err()
}
