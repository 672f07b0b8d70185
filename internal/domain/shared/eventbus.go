package shared

import "context"

// EventHandler reacts to published domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the subscribed types; empty means all events
	EventTypes() []string
}

// EventPublisher publishes domain events after the owning transaction commits
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
