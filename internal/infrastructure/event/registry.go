package event

import (
	"sync"

	"github.com/venuedesk/backend/internal/domain/shared"
)

// subscription couples a handler with the event types it asked for. An empty
// type set means the handler sees every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s *subscription) matches(eventType string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// HandlerRegistry tracks event subscriptions. Handlers are returned in
// registration order.
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []*subscription
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes a handler to the given event types, or to all events
// when none are given
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	sub := &subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, et := range eventTypes {
			sub.types[et] = struct{}{}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
}

// Unregister drops every subscription held by the handler
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.subs[:0]
	for _, sub := range r.subs {
		if sub.handler != handler {
			kept = append(kept, sub)
		}
	}
	r.subs = kept
}

// HandlersFor returns the handlers subscribed to the given event type,
// wildcard subscribers included
func (r *HandlerRegistry) HandlersFor(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var handlers []shared.EventHandler
	for _, sub := range r.subs {
		if sub.matches(eventType) {
			handlers = append(handlers, sub.handler)
		}
	}
	return handlers
}

// Handlers returns every distinct registered handler
func (r *HandlerRegistry) Handlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{}, len(r.subs))
	handlers := make([]shared.EventHandler, 0, len(r.subs))
	for _, sub := range r.subs {
		if _, dup := seen[sub.handler]; dup {
			continue
		}
		seen[sub.handler] = struct{}{}
		handlers = append(handlers, sub.handler)
	}
	return handlers
}
