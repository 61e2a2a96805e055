package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusAccepted QuotationStatus = "ACCEPTED"
	QuotationStatusDeclined QuotationStatus = "DECLINED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusDeclined, QuotationStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent || target == QuotationStatusExpired
	case QuotationStatusSent:
		return target == QuotationStatusAccepted || target == QuotationStatusDeclined || target == QuotationStatusExpired
	case QuotationStatusAccepted, QuotationStatusDeclined, QuotationStatusExpired:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status is terminal
func (s QuotationStatus) IsTerminal() bool {
	return s == QuotationStatusAccepted || s == QuotationStatusDeclined || s == QuotationStatusExpired
}

// Quotation is a priced offer for a resource and time slot. Accepting a
// quotation is the only transition in the system that produces a booking.
type Quotation struct {
	shared.OwnerAggregateRoot
	QuotationNumber string
	ResourceID      uuid.UUID
	CustomerName    string
	CustomerEmail   string
	Interval        valueobject.TimeInterval
	// RawAmount is the operator-entered figure: the gross when TaxMode is
	// inclusive, the net when exclusive. Pricing is always re-derived from it.
	RawAmount      valueobject.Money
	TaxMode        TaxMode
	TaxRatePercent decimal.Decimal
	DepositSpec    valueobject.DepositSpec
	Price          valueobject.PriceBreakdown
	Deposit        valueobject.DepositBreakdown
	Status         QuotationStatus
	BookingID      *uuid.UUID // set once accepted
	ValidUntil     *time.Time
	DeclineReason  string
	SentAt         *time.Time
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	ExpiredAt      *time.Time
}

// NewQuotation creates a draft quotation and derives its price and deposit
// breakdown through the monetary normalizer.
func NewQuotation(
	ownerID uuid.UUID,
	quotationNumber string,
	resourceID uuid.UUID,
	customerName, customerEmail string,
	interval valueobject.TimeInterval,
	rawAmount valueobject.Money,
	taxMode TaxMode,
	taxRatePercent decimal.Decimal,
	depositSpec valueobject.DepositSpec,
	validUntil *time.Time,
) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if interval.IsZero() {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Quotation interval cannot be empty")
	}
	if rawAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if !taxMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_MODE", "Tax mode must be inclusive or exclusive")
	}

	q := &Quotation{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		QuotationNumber:    quotationNumber,
		ResourceID:         resourceID,
		CustomerName:       customerName,
		CustomerEmail:      customerEmail,
		Interval:           interval,
		RawAmount:          rawAmount,
		TaxMode:            taxMode,
		TaxRatePercent:     taxRatePercent,
		DepositSpec:        depositSpec,
		Status:             QuotationStatusDraft,
		ValidUntil:         validUntil,
	}

	if err := q.RecalculatePricing(); err != nil {
		return nil, err
	}

	q.AddDomainEvent(NewQuotationCreatedEvent(q))

	return q, nil
}

// RecalculatePricing re-derives the price and deposit breakdown from the
// quotation's stored inputs. Cached totals are never trusted across a
// transition; accept always recomputes.
func (q *Quotation) RecalculatePricing() error {
	price, err := SplitTax(q.RawAmount, q.TaxMode, q.TaxRatePercent)
	if err != nil {
		return err
	}
	deposit, err := CalculateDeposit(price.Gross, q.DepositSpec)
	if err != nil {
		return err
	}
	q.Price = price
	q.Deposit = deposit
	return nil
}

// Send marks the draft as sent to the customer
func (q *Quotation) Send() error {
	if !q.Status.CanTransitionTo(QuotationStatusSent) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot send quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusSent
	q.SentAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationSentEvent(q))

	return nil
}

// Accept marks the quotation as accepted and links the booking created from
// it. Callers recompute pricing and clear the slot through the conflict
// detector before calling; on conflict the quotation stays SENT.
func (q *Quotation) Accept(bookingID uuid.UUID) error {
	if !q.Status.CanTransitionTo(QuotationStatusAccepted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot accept quotation in %s status", q.Status))
	}
	if bookingID == uuid.Nil {
		return shared.NewDomainError("INVALID_BOOKING", "Booking ID cannot be empty")
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.BookingID = &bookingID
	q.AcceptedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationAcceptedEvent(q))

	return nil
}

// Decline marks a sent quotation as declined by the customer
func (q *Quotation) Decline(reason string) error {
	if !q.Status.CanTransitionTo(QuotationStatusDeclined) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot decline quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusDeclined
	q.DeclineReason = reason
	q.DeclinedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationDeclinedEvent(q))

	return nil
}

// Expire marks any non-terminal quotation as expired
func (q *Quotation) Expire() error {
	if !q.Status.CanTransitionTo(QuotationStatusExpired) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot expire quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusExpired
	q.ExpiredAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationExpiredEvent(q))

	return nil
}

// IsExpiredBy reports whether the quotation's validity window has passed
func (q *Quotation) IsExpiredBy(now time.Time) bool {
	return q.ValidUntil != nil && now.After(*q.ValidUntil)
}

// IsTerminal returns true if the quotation is in a terminal state
func (q *Quotation) IsTerminal() bool {
	return q.Status.IsTerminal()
}
