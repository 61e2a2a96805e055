package scheduling

import (
	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeBooking = "Booking"

// Event type constants
const (
	EventTypeBookingCreated     = "BookingCreated"
	EventTypeBookingConfirmed   = "BookingConfirmed"
	EventTypeBookingCancelled   = "BookingCancelled"
	EventTypeBookingCompleted   = "BookingCompleted"
	EventTypeBookingRescheduled = "BookingRescheduled"
)

// BookingCreatedEvent is raised when a new booking is created
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID    uuid.UUID     `json:"booking_id"`
	ResourceID   uuid.UUID     `json:"resource_id"`
	CustomerName string        `json:"customer_name"`
	Interval     string        `json:"interval"`
	Source       BookingSource `json:"source"`
	Status       BookingStatus `json:"status"`
}

// NewBookingCreatedEvent creates a new BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID, b.OwnerID),
		BookingID:       b.ID,
		ResourceID:      b.ResourceID,
		CustomerName:    b.CustomerName,
		Interval:        b.Interval.String(),
		Source:          b.Source,
		Status:          b.Status,
	}
}

// EventType returns the event type name
func (e *BookingCreatedEvent) EventType() string {
	return EventTypeBookingCreated
}

// BookingConfirmedEvent is raised when a booking moves to confirmed
type BookingConfirmedEvent struct {
	shared.BaseDomainEvent
	BookingID  uuid.UUID `json:"booking_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Interval   string    `json:"interval"`
	Gross      string    `json:"gross"`
}

// NewBookingConfirmedEvent creates a new BookingConfirmedEvent
func NewBookingConfirmedEvent(b *Booking) *BookingConfirmedEvent {
	return &BookingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingConfirmed, AggregateTypeBooking, b.ID, b.OwnerID),
		BookingID:       b.ID,
		ResourceID:      b.ResourceID,
		Interval:        b.Interval.String(),
		Gross:           b.Price.Gross.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *BookingConfirmedEvent) EventType() string {
	return EventTypeBookingConfirmed
}

// BookingCancelledEvent is raised when a booking is cancelled
type BookingCancelledEvent struct {
	shared.BaseDomainEvent
	BookingID  uuid.UUID `json:"booking_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Interval   string    `json:"interval"`
	Reason     string    `json:"reason"`
}

// NewBookingCancelledEvent creates a new BookingCancelledEvent
func NewBookingCancelledEvent(b *Booking) *BookingCancelledEvent {
	return &BookingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCancelled, AggregateTypeBooking, b.ID, b.OwnerID),
		BookingID:       b.ID,
		ResourceID:      b.ResourceID,
		Interval:        b.Interval.String(),
		Reason:          b.CancelReason,
	}
}

// EventType returns the event type name
func (e *BookingCancelledEvent) EventType() string {
	return EventTypeBookingCancelled
}

// BookingCompletedEvent is raised when a confirmed booking completes
type BookingCompletedEvent struct {
	shared.BaseDomainEvent
	BookingID  uuid.UUID `json:"booking_id"`
	ResourceID uuid.UUID `json:"resource_id"`
}

// NewBookingCompletedEvent creates a new BookingCompletedEvent
func NewBookingCompletedEvent(b *Booking) *BookingCompletedEvent {
	return &BookingCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCompleted, AggregateTypeBooking, b.ID, b.OwnerID),
		BookingID:       b.ID,
		ResourceID:      b.ResourceID,
	}
}

// EventType returns the event type name
func (e *BookingCompletedEvent) EventType() string {
	return EventTypeBookingCompleted
}

// BookingRescheduledEvent is raised when a booking's interval changes
type BookingRescheduledEvent struct {
	shared.BaseDomainEvent
	BookingID        uuid.UUID `json:"booking_id"`
	ResourceID       uuid.UUID `json:"resource_id"`
	PreviousInterval string    `json:"previous_interval"`
	NewInterval      string    `json:"new_interval"`
}

// NewBookingRescheduledEvent creates a new BookingRescheduledEvent
func NewBookingRescheduledEvent(b *Booking, previous valueobject.TimeInterval) *BookingRescheduledEvent {
	return &BookingRescheduledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeBookingRescheduled, AggregateTypeBooking, b.ID, b.OwnerID),
		BookingID:        b.ID,
		ResourceID:       b.ResourceID,
		PreviousInterval: previous.String(),
		NewInterval:      b.Interval.String(),
	}
}

// EventType returns the event type name
func (e *BookingRescheduledEvent) EventType() string {
	return EventTypeBookingRescheduled
}
