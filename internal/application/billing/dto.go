package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// CreateQuotationRequest is the request to draft a quotation
type CreateQuotationRequest struct {
	ResourceID    uuid.UUID       `json:"resource_id" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerEmail string          `json:"customer_email" binding:"omitempty,email"`
	Date          time.Time       `json:"date" binding:"required"`
	StartTime     string          `json:"start_time" binding:"required"`
	EndTime       string          `json:"end_time" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TaxMode       string          `json:"tax_mode" binding:"omitempty,oneof=INCLUSIVE EXCLUSIVE"`
	// TaxRate nil means the owner's policy rate; an explicit 0 is a 0% rate
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	DepositType  string           `json:"deposit_type" binding:"omitempty,oneof=NONE FIXED PERCENTAGE"`
	DepositValue decimal.Decimal  `json:"deposit_value"`
	ValidUntil   *time.Time       `json:"valid_until"`
}

// DeclineQuotationRequest carries the customer's decline reason
type DeclineQuotationRequest struct {
	Reason string `json:"reason"`
}

// CreateInvoiceRequest is the request to draft an invoice for a booking
type CreateInvoiceRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Kind      string    `json:"kind" binding:"required,oneof=DEPOSIT FINAL BOND ADD-ONS"`
	// Amount is the fallback when the booking carries no authoritative price
	// (FINAL), and the charged amount for BOND and ADD-ONS invoices
	Amount  *decimal.Decimal `json:"amount"`
	TaxMode string           `json:"tax_mode" binding:"omitempty,oneof=INCLUSIVE EXCLUSIVE"`
	// TaxRate nil means the owner's policy rate; an explicit 0 is a 0% rate
	TaxRate *decimal.Decimal `json:"tax_rate"`
	DueDate *time.Time       `json:"due_date"`
}

// RecordPaymentRequest records a payment against an invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
}

// VoidInvoiceRequest carries the operator's void reason
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundInvoiceRequest carries the operator's refund reason
type RefundInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// QuotationResponse is the response representation of a quotation
type QuotationResponse struct {
	ID              uuid.UUID  `json:"id"`
	QuotationNumber string     `json:"quotation_number"`
	ResourceID      uuid.UUID  `json:"resource_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email,omitempty"`
	Interval        string     `json:"interval"`
	Net             string     `json:"net"`
	Tax             string     `json:"tax"`
	Gross           string     `json:"gross"`
	Deposit         string     `json:"deposit"`
	Balance         string     `json:"balance"`
	Status          string     `json:"status"`
	BookingID       *uuid.UUID `json:"booking_id,omitempty"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
	DeclineReason   string     `json:"decline_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Warnings        []string   `json:"warnings,omitempty"`
}

// PaymentResponse is one ledger entry of an invoice
type PaymentResponse struct {
	ID         uuid.UUID `json:"id"`
	Amount     string    `json:"amount"`
	Method     string    `json:"method"`
	Reference  string    `json:"reference,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// InvoiceResponse is the response representation of an invoice
type InvoiceResponse struct {
	ID                 uuid.UUID         `json:"id"`
	InvoiceNumber      string            `json:"invoice_number"`
	BookingID          uuid.UUID         `json:"booking_id"`
	Kind               string            `json:"kind"`
	Net                string            `json:"net"`
	Tax                string            `json:"tax"`
	Gross              string            `json:"gross"`
	DepositAlreadyPaid string            `json:"deposit_already_paid"`
	AmountDue          string            `json:"amount_due"`
	PaidAmount         string            `json:"paid_amount"`
	Outstanding        string            `json:"outstanding"`
	Status             string            `json:"status"`
	DueDate            *time.Time        `json:"due_date,omitempty"`
	Payments           []PaymentResponse `json:"payments"`
	CreatedAt          time.Time         `json:"created_at"`
	Warnings           []string          `json:"warnings,omitempty"`
}

func parseDepositSpec(depositType string, value decimal.Decimal) (valueobject.DepositSpec, error) {
	switch depositType {
	case "", string(valueobject.DepositNone):
		return valueobject.NoDeposit(), nil
	case string(valueobject.DepositFixed):
		return valueobject.FixedDeposit(value)
	case string(valueobject.DepositPercentage):
		return valueobject.PercentageDeposit(value)
	default:
		return valueobject.DepositSpec{}, shared.NewDomainError("INVALID_DEPOSIT_SPEC", "Deposit type is not valid")
	}
}

// ToQuotationResponse converts a quotation to its response representation
func ToQuotationResponse(q *billing.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ResourceID:      q.ResourceID,
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		Interval:        q.Interval.String(),
		Net:             q.Price.Net.StringFixed(2),
		Tax:             q.Price.Tax.StringFixed(2),
		Gross:           q.Price.Gross.StringFixed(2),
		Deposit:         q.Deposit.Deposit.StringFixed(2),
		Balance:         q.Deposit.Balance.StringFixed(2),
		Status:          q.Status.String(),
		BookingID:       q.BookingID,
		ValidUntil:      q.ValidUntil,
		DeclineReason:   q.DeclineReason,
		CreatedAt:       q.CreatedAt,
	}
}

// ToInvoiceResponse converts an invoice to its response representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, PaymentResponse{
			ID:         p.ID,
			Amount:     p.Amount.StringFixed(2),
			Method:     p.Method,
			Reference:  p.Reference,
			RecordedAt: p.RecordedAt,
		})
	}
	return InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		BookingID:          inv.BookingID,
		Kind:               inv.Kind.String(),
		Net:                inv.Price.Net.StringFixed(2),
		Tax:                inv.Price.Tax.StringFixed(2),
		Gross:              inv.Price.Gross.StringFixed(2),
		DepositAlreadyPaid: inv.DepositAlreadyPaid.StringFixed(2),
		AmountDue:          inv.AmountDue.StringFixed(2),
		PaidAmount:         inv.PaidAmount.StringFixed(2),
		Outstanding:        inv.Outstanding().StringFixed(2),
		Status:             inv.Status.String(),
		DueDate:            inv.DueDate,
		Payments:           payments,
		CreatedAt:          inv.CreatedAt,
	}
}

func quotationSnapshot(q *billing.Quotation) effect.DocumentSnapshot {
	return effect.DocumentSnapshot{
		DocumentType: "quotation",
		DocumentID:   q.ID,
		Number:       q.QuotationNumber,
		OwnerID:      q.OwnerID,
		Fields: map[string]interface{}{
			"customer_name": q.CustomerName,
			"interval":      q.Interval.String(),
			"net":           q.Price.Net.StringFixed(2),
			"tax":           q.Price.Tax.StringFixed(2),
			"gross":         q.Price.Gross.StringFixed(2),
			"deposit":       q.Deposit.Deposit.StringFixed(2),
			"balance":       q.Deposit.Balance.StringFixed(2),
			"status":        q.Status.String(),
		},
	}
}

func invoiceSnapshot(inv *billing.Invoice) effect.DocumentSnapshot {
	return effect.DocumentSnapshot{
		DocumentType: "invoice",
		DocumentID:   inv.ID,
		Number:       inv.InvoiceNumber,
		OwnerID:      inv.OwnerID,
		Fields: map[string]interface{}{
			"booking_id":           inv.BookingID.String(),
			"kind":                 inv.Kind.String(),
			"net":                  inv.Price.Net.StringFixed(2),
			"tax":                  inv.Price.Tax.StringFixed(2),
			"gross":                inv.Price.Gross.StringFixed(2),
			"deposit_already_paid": inv.DepositAlreadyPaid.StringFixed(2),
			"amount_due":           inv.AmountDue.StringFixed(2),
			"status":               inv.Status.String(),
		},
	}
}
