package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const queueKeyPrefix = "automation:"

// RedisQueue appends encoded events to Redis lists named automation:<queue>.
// Consumers pop from the head.
type RedisQueue struct {
	client redis.UniversalClient
}

func NewRedisQueue(client redis.UniversalClient) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Push(ctx context.Context, queue string, event shared.DomainEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	if err := q.client.RPush(ctx, queueKeyPrefix+queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", queue, err)
	}
	return nil
}

// InMemoryQueue keeps encoded events in process. Used when Redis is disabled.
type InMemoryQueue struct {
	mu     sync.Mutex
	queues map[string][][]byte
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{queues: make(map[string][][]byte)}
}

func (q *InMemoryQueue) Push(_ context.Context, queue string, event shared.DomainEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queues[queue] = append(q.queues[queue], data)
	return nil
}

// Drain removes and returns everything queued under queue
func (q *InMemoryQueue) Drain(queue string) [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.queues[queue]
	delete(q.queues, queue)
	return items
}
