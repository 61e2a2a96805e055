package billing

import (
	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoiceSent            = "InvoiceSent"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
	EventTypeInvoicePaid            = "InvoicePaid"
	EventTypeInvoiceOverdue         = "InvoiceOverdue"
	EventTypeInvoiceVoided          = "InvoiceVoided"
	EventTypeInvoiceRefunded        = "InvoiceRefunded"
)

// InvoiceCreatedEvent is raised when a new invoice is drafted
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID   `json:"invoice_id"`
	InvoiceNumber string      `json:"invoice_number"`
	BookingID     uuid.UUID   `json:"booking_id"`
	Kind          InvoiceKind `json:"kind"`
	AmountDue     string      `json:"amount_due"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		BookingID:       inv.BookingID,
		Kind:            inv.Kind,
		AmountDue:       inv.AmountDue.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// InvoiceSentEvent is raised when an invoice is sent to the customer
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	AmountDue     string    `json:"amount_due"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		AmountDue:       inv.AmountDue.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *InvoiceSentEvent) EventType() string {
	return EventTypeInvoiceSent
}

// InvoicePaymentRecordedEvent is raised for each payment that does not settle
// the invoice in full
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	InvoiceNumber string        `json:"invoice_number"`
	PaymentID     uuid.UUID     `json:"payment_id"`
	Amount        string        `json:"amount"`
	Method        string        `json:"method"`
	Status        InvoiceStatus `json:"status"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, entry Payment) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       entry.ID,
		Amount:          entry.Amount.StringFixed(2),
		Method:          entry.Method,
		Status:          inv.Status,
	}
}

// EventType returns the event type name
func (e *InvoicePaymentRecordedEvent) EventType() string {
	return EventTypeInvoicePaymentRecorded
}

// InvoicePaidEvent is raised when the ledger covers the invoice in full
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	BookingID     uuid.UUID `json:"booking_id"`
	PaidAmount    string    `json:"paid_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		BookingID:       inv.BookingID,
		PaidAmount:      inv.PaidAmount.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return EventTypeInvoicePaid
}

// InvoiceOverdueEvent is raised when an unpaid invoice passes its due date
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Outstanding   string    `json:"outstanding"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Outstanding:     inv.Outstanding().StringFixed(2),
	}
}

// EventType returns the event type name
func (e *InvoiceOverdueEvent) EventType() string {
	return EventTypeInvoiceOverdue
}

// InvoiceVoidedEvent is raised when an operator voids an invoice
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Reason        string    `json:"reason"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          inv.VoidReason,
	}
}

// EventType returns the event type name
func (e *InvoiceVoidedEvent) EventType() string {
	return EventTypeInvoiceVoided
}

// InvoiceRefundedEvent is raised when an operator refunds a paid invoice
type InvoiceRefundedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Reason        string    `json:"reason"`
	PaidAmount    string    `json:"paid_amount"`
}

// NewInvoiceRefundedEvent creates a new InvoiceRefundedEvent
func NewInvoiceRefundedEvent(inv *Invoice) *InvoiceRefundedEvent {
	return &InvoiceRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRefunded, AggregateTypeInvoice, inv.ID, inv.OwnerID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          inv.RefundReason,
		PaidAmount:      inv.PaidAmount.StringFixed(2),
	}
}

// EventType returns the event type name
func (e *InvoiceRefundedEvent) EventType() string {
	return EventTypeInvoiceRefunded
}
