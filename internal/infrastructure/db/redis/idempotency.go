package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps Idempotency-Key headers to the loan they created,
// so repeated POST /loans submissions replay the original loan.
// Key format: idem:loan:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the loan id recorded for key, or "" when the key is unseen.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return v, nil
}

// Remember records the loan created for key (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, key, loanID string) error {
	return s.client.Set(ctx, s.key(key), loanID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:loan:" + k
}
