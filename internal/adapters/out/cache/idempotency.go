// Package cache keeps short-lived request state in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const pending = "pending"

// IdempotencyStore implements ports.IdempotencyStore. A key holds the
// pending marker while the first request runs and the encoded response
// afterwards.
type IdempotencyStore struct {
	client      redis.UniversalClient
	serviceName string
	lockTTL     time.Duration
	ttl         time.Duration
}

// NewIdempotencyStore keeps responses for ttl. A reservation whose request
// never completes expires after lockTTL.
func NewIdempotencyStore(client redis.UniversalClient, serviceName string, lockTTL, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, serviceName: serviceName, lockTTL: lockTTL, ttl: ttl}
}

// NewClient connects to a single Redis node.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (s *IdempotencyStore) generateKey(key string) string {
	return fmt.Sprintf("%s:idempotency:%s", s.serviceName, key)
}

func (s *IdempotencyStore) Begin(ctx context.Context, key string) (*ports.StoredResponse, error) {
	k := s.generateKey(key)
	reserved, err := s.client.SetNX(ctx, k, pending, s.lockTTL).Result()
	if err != nil {
		return nil, err
	}
	if reserved {
		return nil, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; the next attempt reserves it.
		return nil, ports.ErrRequestInProgress
	}
	if err != nil {
		return nil, err
	}
	if val == pending {
		return nil, ports.ErrRequestInProgress
	}

	var resp ports.StoredResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("decode stored response %s: %w", key, err)
	}
	return &resp, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp ports.StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.generateKey(key), data, s.ttl).Err()
}

func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.generateKey(key)).Err()
}
