package billing

import (
	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationCreated  = "QuotationCreated"
	EventTypeQuotationSent     = "QuotationSent"
	EventTypeQuotationAccepted = "QuotationAccepted"
	EventTypeQuotationDeclined = "QuotationDeclined"
	EventTypeQuotationExpired  = "QuotationExpired"
)

// QuotationCreatedEvent is raised when a new quotation is drafted
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	ResourceID      uuid.UUID `json:"resource_id"`
	CustomerName    string    `json:"customer_name"`
	Interval        string    `json:"interval"`
	Gross           string    `json:"gross"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID, q.OwnerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		ResourceID:      q.ResourceID,
		CustomerName:    q.CustomerName,
		Interval:        q.Interval.String(),
		Gross:           q.Price.Gross.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *QuotationCreatedEvent) EventType() string {
	return EventTypeQuotationCreated
}

// QuotationSentEvent is raised when a quotation is sent to the customer
type QuotationSentEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	CustomerEmail   string    `json:"customer_email"`
}

// NewQuotationSentEvent creates a new QuotationSentEvent
func NewQuotationSentEvent(q *Quotation) *QuotationSentEvent {
	return &QuotationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSent, AggregateTypeQuotation, q.ID, q.OwnerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerEmail:   q.CustomerEmail,
	}
}

// EventType returns the event type name
func (e *QuotationSentEvent) EventType() string {
	return EventTypeQuotationSent
}

// QuotationAcceptedEvent is raised when the customer accepts a quotation
type QuotationAcceptedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	BookingID       uuid.UUID `json:"booking_id"`
	Gross           string    `json:"gross"`
}

// NewQuotationAcceptedEvent creates a new QuotationAcceptedEvent
func NewQuotationAcceptedEvent(q *Quotation) *QuotationAcceptedEvent {
	var bookingID uuid.UUID
	if q.BookingID != nil {
		bookingID = *q.BookingID
	}
	return &QuotationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationAccepted, AggregateTypeQuotation, q.ID, q.OwnerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		BookingID:       bookingID,
		Gross:           q.Price.Gross.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *QuotationAcceptedEvent) EventType() string {
	return EventTypeQuotationAccepted
}

// QuotationDeclinedEvent is raised when the customer declines a quotation
type QuotationDeclinedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	Reason          string    `json:"reason"`
}

// NewQuotationDeclinedEvent creates a new QuotationDeclinedEvent
func NewQuotationDeclinedEvent(q *Quotation) *QuotationDeclinedEvent {
	return &QuotationDeclinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationDeclined, AggregateTypeQuotation, q.ID, q.OwnerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Reason:          q.DeclineReason,
	}
}

// EventType returns the event type name
func (e *QuotationDeclinedEvent) EventType() string {
	return EventTypeQuotationDeclined
}

// QuotationExpiredEvent is raised when a quotation passes its validity window
type QuotationExpiredEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
}

// NewQuotationExpiredEvent creates a new QuotationExpiredEvent
func NewQuotationExpiredEvent(q *Quotation) *QuotationExpiredEvent {
	return &QuotationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationExpired, AggregateTypeQuotation, q.ID, q.OwnerID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
	}
}

// EventType returns the event type name
func (e *QuotationExpiredEvent) EventType() string {
	return EventTypeQuotationExpired
}
