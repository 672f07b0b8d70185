package testutil

import (
	"context"
	"sync"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// TestEvent is a domain event with no meaning to any subscriber
type TestEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func NewTestEvent(eventType string, tenantID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), tenantID),
		Data:            "test-data",
	}
}

// RecordingPublisher collects published events in order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// Types lists the event types published so far
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// Reset forgets everything recorded so far
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
