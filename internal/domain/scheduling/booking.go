package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return target == BookingStatusConfirmed || target == BookingStatusCancelled
	case BookingStatusConfirmed:
		return target == BookingStatusCancelled || target == BookingStatusCompleted
	case BookingStatusCancelled, BookingStatusCompleted:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status is terminal
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// IsActive returns true if the booking counts toward conflict checks
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// BookingSource records how the booking entered the system
type BookingSource string

const (
	SourceDirect    BookingSource = "direct"    // customer self-service request
	SourceAdmin     BookingSource = "admin"     // created by the operator
	SourceQuotation BookingSource = "quotation" // produced by an accepted quotation
)

// IsValid checks if the source is a valid BookingSource
func (s BookingSource) IsValid() bool {
	switch s {
	case SourceDirect, SourceAdmin, SourceQuotation:
		return true
	}
	return false
}

// ErrBookingTerminal is returned when editing a cancelled or completed booking
var ErrBookingTerminal = shared.NewDomainError("BOOKING_TERMINAL", "Booking is in a terminal state and cannot be modified")

// Booking represents a reservation of one resource for one time interval.
// Bookings are never physically deleted; cancellation is a status change.
type Booking struct {
	shared.OwnerAggregateRoot
	ResourceID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	Interval      valueobject.TimeInterval
	Status        BookingStatus
	Source        BookingSource
	Price         valueobject.PriceBreakdown
	Priced        bool // false until SetPricing; a free booking is priced at zero
	DepositSpec   valueobject.DepositSpec
	Deposit       valueobject.DepositBreakdown
	QuotationID   *uuid.UUID // set when sourced from an accepted quotation
	CancelReason  string
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	CompletedAt   *time.Time
}

// NewBooking creates a booking. Direct customer requests start pending;
// admin-created and quotation-sourced bookings start confirmed.
func NewBooking(ownerID, resourceID uuid.UUID, customerName, customerEmail string, interval valueobject.TimeInterval, source BookingSource) (*Booking, error) {
	if resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Booking source is not valid")
	}
	if interval.IsZero() {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Booking interval cannot be empty")
	}

	status := BookingStatusPending
	var confirmedAt *time.Time
	if source == SourceAdmin || source == SourceQuotation {
		status = BookingStatusConfirmed
		now := time.Now()
		confirmedAt = &now
	}

	b := &Booking{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		ResourceID:         resourceID,
		CustomerName:       customerName,
		CustomerEmail:      customerEmail,
		Interval:           interval,
		Status:             status,
		Source:             source,
		DepositSpec:        valueobject.NoDeposit(),
		ConfirmedAt:        confirmedAt,
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// SetPricing replaces the booking's monetary breakdown.
// Callers must derive the values through the monetary normalizer so the
// net/tax/gross and deposit/balance invariants hold.
func (b *Booking) SetPricing(price valueobject.PriceBreakdown, spec valueobject.DepositSpec, deposit valueobject.DepositBreakdown) error {
	if b.Status.IsTerminal() {
		return ErrBookingTerminal
	}
	if !price.Reconciles() {
		return shared.NewDomainError("INVALID_AMOUNT", "Price breakdown does not reconcile")
	}
	b.Price = price
	b.Priced = true
	b.DepositSpec = spec
	b.Deposit = deposit
	b.UpdatedAt = time.Now()
	return nil
}

// Confirm transitions the booking from pending to confirmed.
// The caller re-runs conflict detection before confirming.
func (b *Booking) Confirm() error {
	if !b.Status.CanTransitionTo(BookingStatusConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot confirm booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = BookingStatusConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now

	b.AddDomainEvent(NewBookingConfirmedEvent(b))

	return nil
}

// Cancel cancels the booking. Allowed from pending or confirmed.
func (b *Booking) Cancel(reason string) error {
	if !b.Status.CanTransitionTo(BookingStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.CancelReason = reason
	b.UpdatedAt = now

	b.AddDomainEvent(NewBookingCancelledEvent(b))

	return nil
}

// Complete marks a confirmed booking as completed
func (b *Booking) Complete() error {
	if !b.Status.CanTransitionTo(BookingStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot complete booking in %s status", b.Status))
	}

	now := time.Now()
	b.Status = BookingStatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now

	b.AddDomainEvent(NewBookingCompletedEvent(b))

	return nil
}

// Reschedule moves the booking to a new interval.
// The caller re-runs conflict detection (excluding this booking) and price
// recomputation before persisting.
func (b *Booking) Reschedule(interval valueobject.TimeInterval) error {
	if b.Status.IsTerminal() {
		return ErrBookingTerminal
	}
	if interval.IsZero() {
		return shared.NewDomainError("INVALID_INTERVAL", "Booking interval cannot be empty")
	}

	previous := b.Interval
	b.Interval = interval
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBookingRescheduledEvent(b, previous))

	return nil
}

// LinkQuotation records the quotation this booking was created from
func (b *Booking) LinkQuotation(quotationID uuid.UUID) {
	b.QuotationID = &quotationID
	b.UpdatedAt = time.Now()
}

// IsActive returns true if the booking counts toward conflict checks
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsTerminal returns true if the booking is cancelled or completed
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}
