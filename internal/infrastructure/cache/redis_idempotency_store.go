package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyPrefix = "idempotency:"

// RedisIdempotencyStore shares reservations across instances via SETNX
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedisIdempotencyStore(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultIdempotencyPrefix
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// Reserve returns true when key was free and is now held for ttl
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
