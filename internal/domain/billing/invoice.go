package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// InvoiceKind classifies what a booking is being billed for
type InvoiceKind string

const (
	InvoiceKindDeposit InvoiceKind = "DEPOSIT"
	InvoiceKindFinal   InvoiceKind = "FINAL"
	InvoiceKindBond    InvoiceKind = "BOND"
	InvoiceKindAddOns  InvoiceKind = "ADD-ONS"
)

// IsValid checks if the kind is a valid InvoiceKind
func (k InvoiceKind) IsValid() bool {
	switch k {
	case InvoiceKindDeposit, InvoiceKindFinal, InvoiceKindBond, InvoiceKindAddOns:
		return true
	}
	return false
}

// String returns the string representation of InvoiceKind
func (k InvoiceKind) String() string {
	return string(k)
}

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft    InvoiceStatus = "DRAFT"
	InvoiceStatusSent     InvoiceStatus = "SENT"
	InvoiceStatusPartial  InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
	InvoiceStatusOverdue  InvoiceStatus = "OVERDUE"
	InvoiceStatusVoid     InvoiceStatus = "VOID"
	InvoiceStatusRefunded InvoiceStatus = "REFUNDED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusVoid, InvoiceStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses only reachable by explicit operator action
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusVoid || s == InvoiceStatusRefunded
}

// CanRecordPayment returns true if payments can be recorded in this status
func (s InvoiceStatus) CanRecordPayment() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartial || s == InvoiceStatusOverdue
}

// Rank orders the payment progression DRAFT < SENT/OVERDUE < PARTIAL < PAID.
// Recording payments never decreases rank.
func (s InvoiceStatus) Rank() int {
	switch s {
	case InvoiceStatusDraft:
		return 0
	case InvoiceStatusSent, InvoiceStatusOverdue:
		return 1
	case InvoiceStatusPartial:
		return 2
	case InvoiceStatusPaid:
		return 3
	default:
		return 4
	}
}

// OverPaymentError is returned when a payment would push the ledger past the
// invoice's collectible amount. Over-payment is rejected, never clipped.
type OverPaymentError struct {
	Attempted   decimal.Decimal
	Outstanding decimal.Decimal
}

// Error implements the error interface
func (e *OverPaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds outstanding amount %s", e.Attempted.StringFixed(2), e.Outstanding.StringFixed(2))
}

// Payment is one append-only ledger entry against an invoice
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Payments is the invoice's payment ledger, stored as a JSONB column
type Payments []Payment

// Value implements driver.Valuer for JSONB storage
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *Payments) Scan(value interface{}) error {
	if value == nil {
		*p = Payments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Payments: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Payments{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Total returns the sum of all ledger entries
func (p Payments) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range p {
		total = total.Add(entry.Amount)
	}
	return total
}

// Invoice bills a booking for a specific kind of charge. At most one invoice
// per (booking, kind) may exist outside VOID/REFUNDED at any time; that
// uniqueness is enforced as a precondition on creation, not as a transition.
type Invoice struct {
	shared.OwnerAggregateRoot
	InvoiceNumber string
	BookingID     uuid.UUID
	Kind          InvoiceKind
	// Price is the invoiced {subtotal, tax, gross} triple
	Price valueobject.PriceBreakdown
	// DepositAlreadyPaid credits a deposit collected earlier against this
	// invoice; the collectible AmountDue is gross minus this credit.
	DepositAlreadyPaid valueobject.Money
	AmountDue          valueobject.Money
	PaidAmount         valueobject.Money
	Status             InvoiceStatus
	DueDate            *time.Time
	Payments           Payments
	VoidReason         string
	RefundReason       string
	SentAt             *time.Time
	PaidAt             *time.Time
	VoidedAt           *time.Time
	RefundedAt         *time.Time
}

// NewInvoice creates a draft invoice for a booking
func NewInvoice(
	ownerID uuid.UUID,
	invoiceNumber string,
	bookingID uuid.UUID,
	kind InvoiceKind,
	price valueobject.PriceBreakdown,
	depositAlreadyPaid valueobject.Money,
	dueDate *time.Time,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if bookingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BOOKING", "Booking ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_KIND", "Invoice kind is not valid")
	}
	if price.Gross.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if !price.Reconciles() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice price breakdown does not reconcile")
	}
	if depositAlreadyPaid.IsNegative() {
		return nil, ErrInvalidAmount
	}

	due := price.Gross.Amount().Sub(depositAlreadyPaid.Amount()).Round(2)
	if due.IsNegative() {
		due = decimal.Zero
	}
	currency := price.Gross.Currency()
	amountDue, _ := valueobject.NewMoney(due, currency)
	zero, _ := valueobject.NewMoney(decimal.Zero, currency)

	inv := &Invoice{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		InvoiceNumber:      invoiceNumber,
		BookingID:          bookingID,
		Kind:               kind,
		Price:              price,
		DepositAlreadyPaid: depositAlreadyPaid,
		AmountDue:          amountDue,
		PaidAmount:         zero,
		Status:             InvoiceStatusDraft,
		DueDate:            dueDate,
		Payments:           Payments{},
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Send marks the draft as sent to the customer
func (inv *Invoice) Send() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// RecordPayment appends a ledger entry and derives the new status from the
// ledger. Payments exceeding the outstanding amount are rejected with
// OverPaymentError (zero tolerance).
func (inv *Invoice) RecordPayment(amount valueobject.Money, method, reference string) error {
	if !inv.Status.CanRecordPayment() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot record payment on invoice in %s status", inv.Status))
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	outstanding := inv.AmountDue.Amount().Sub(inv.PaidAmount.Amount())
	if amount.Amount().GreaterThan(outstanding) {
		return &OverPaymentError{
			Attempted:   amount.Amount(),
			Outstanding: outstanding,
		}
	}

	entry := Payment{
		ID:         uuid.New(),
		Amount:     amount.Amount(),
		Method:     method,
		Reference:  reference,
		RecordedAt: time.Now(),
	}
	inv.Payments = append(inv.Payments, entry)

	paid := inv.PaidAmount.Amount().Add(amount.Amount())
	inv.PaidAmount, _ = valueobject.NewMoney(paid, inv.AmountDue.Currency())

	previous := inv.Status
	inv.Status = DeriveInvoiceStatus(inv.Status, paid, inv.AmountDue.Amount())

	now := time.Now()
	if inv.Status == InvoiceStatusPaid && previous != InvoiceStatusPaid {
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, entry))
	}

	inv.UpdatedAt = now
	inv.IncrementVersion()

	return nil
}

// MarkOverdue flags an unpaid invoice past its due date.
// No-op guard: only sent or partially paid invoices can go overdue.
func (inv *Invoice) MarkOverdue(now time.Time) error {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusPartial {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark invoice overdue in %s status", inv.Status))
	}
	if inv.DueDate == nil || !now.After(*inv.DueDate) {
		return shared.NewDomainError("INVALID_TRANSITION", "Invoice is not past its due date")
	}

	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceOverdueEvent(inv))

	return nil
}

// Void cancels any non-terminal invoice by explicit operator action
func (inv *Invoice) Void(reason string) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot void invoice in %s status", inv.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusVoid
	inv.VoidReason = reason
	inv.VoidedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))

	return nil
}

// Refund reverses a fully paid invoice by explicit operator action
func (inv *Invoice) Refund(reason string) error {
	if inv.Status != InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot refund invoice in %s status", inv.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Refund reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusRefunded
	inv.RefundReason = reason
	inv.RefundedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceRefundedEvent(inv))

	return nil
}

// Outstanding returns the collectible amount still unpaid
func (inv *Invoice) Outstanding() valueobject.Money {
	out := inv.AmountDue.Amount().Sub(inv.PaidAmount.Amount())
	m, _ := valueobject.NewMoney(out, inv.AmountDue.Currency())
	return m
}

// Blocks reports whether this invoice blocks creation of another invoice of
// the same kind for its booking
func (inv *Invoice) Blocks() bool {
	return !inv.Status.IsTerminal()
}

// PaymentCount returns the number of ledger entries
func (inv *Invoice) PaymentCount() int {
	return len(inv.Payments)
}
