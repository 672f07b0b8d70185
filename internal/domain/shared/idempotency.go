package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so a retried mutation runs once
type IdempotencyStore interface {
	// Reserve atomically claims key for ttl. It returns false when the key
	// was already claimed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release drops a claim so a failed request can be retried
	Release(ctx context.Context, key string) error
}
