package cache

import (
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks the Redis store when a client is available and
// falls back to the in-memory store otherwise.
func NewIdempotencyStore(client redis.UniversalClient, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client, "")
	}
	logger.Warn("Redis disabled, using in-memory idempotency store (not shared across instances)")
	return NewInMemoryIdempotencyStore(5 * time.Minute)
}
