package effect

import (
	"context"

	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/domain/shared"
)

// DocumentTimelineHandler subscribes to every domain event and records it in
// the audit log, building the per-document timeline operators see. It is a
// wildcard subscriber; a failure here never blocks the publishing transition.
type DocumentTimelineHandler struct {
	audit  AuditLog
	logger *zap.Logger
}

// NewDocumentTimelineHandler creates a new DocumentTimelineHandler
func NewDocumentTimelineHandler(audit AuditLog, logger *zap.Logger) *DocumentTimelineHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentTimelineHandler{
		audit:  audit,
		logger: logger,
	}
}

// EventTypes returns an empty slice so the handler receives all events
func (h *DocumentTimelineHandler) EventTypes() []string {
	return nil
}

// Handle records the event on the aggregate's timeline
func (h *DocumentTimelineHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.audit == nil {
		return nil
	}

	h.audit.Record(ctx, event.OwnerID(), event.EventType(), nil, map[string]interface{}{
		"event_id":       event.EventID().String(),
		"aggregate_type": event.AggregateType(),
		"aggregate_id":   event.AggregateID().String(),
		"occurred_at":    event.OccurredAt(),
	})

	h.logger.Debug("Domain event recorded",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()))
	return nil
}

// Ensure DocumentTimelineHandler implements EventHandler
var _ shared.EventHandler = (*DocumentTimelineHandler)(nil)
