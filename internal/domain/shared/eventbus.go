package shared

import "context"

// EventHandler consumes domain events, typically to drive side effects like
// the audit timeline or customer notifications
type EventHandler interface {
	// Handle processes a single event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the event types the handler wants. An empty slice
	// subscribes it to everything.
	EventTypes() []string
}

// EventPublisher is the write side of the bus, used by application services
// after persisting an aggregate
type EventPublisher interface {
	// Publish delivers one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the read side of the bus
type EventSubscriber interface {
	// Subscribe registers a handler, falling back to the handler's own
	// EventTypes declaration when no types are given
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes all of the handler's subscriptions
	Unsubscribe(handler EventHandler)
}

// EventBus combines both sides for in-process wiring
type EventBus interface {
	EventPublisher
	EventSubscriber
}
