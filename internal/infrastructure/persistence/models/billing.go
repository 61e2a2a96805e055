package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// QuotationModel is the persistence model for the Quotation aggregate root.
// The operator-entered raw amount and tax inputs are stored so pricing can be
// recomputed on accept instead of trusting the cached triple.
type QuotationModel struct {
	OwnerAggregateModel
	QuotationNumber string                  `gorm:"type:varchar(50);not null;index"`
	ResourceID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerName    string                  `gorm:"type:varchar(200);not null"`
	CustomerEmail   string                  `gorm:"type:varchar(320)"`
	BookingDate     time.Time               `gorm:"type:date;not null"`
	StartMinute     int                     `gorm:"not null"`
	EndMinute       int                     `gorm:"not null"`
	RawAmount       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TaxMode         billing.TaxMode         `gorm:"type:varchar(20);not null"`
	TaxRatePercent  decimal.Decimal         `gorm:"type:decimal(8,4);not null;default:0"`
	DepositType     valueobject.DepositType `gorm:"type:varchar(20);not null;default:'NONE'"`
	DepositValue    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PriceNet        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PriceTax        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PriceGross      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	DepositAmount   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAmount   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status          billing.QuotationStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	BookingID       *uuid.UUID              `gorm:"type:uuid;index"`
	ValidUntil      *time.Time              `gorm:"index"`
	DeclineReason   string                  `gorm:"type:varchar(500)"`
	SentAt          *time.Time
	AcceptedAt      *time.Time
	DeclinedAt      *time.Time
	ExpiredAt       *time.Time
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation entity.
func (m *QuotationModel) ToDomain() (*billing.Quotation, error) {
	interval, err := valueobject.NewTimeInterval(m.BookingDate, m.StartMinute, m.EndMinute)
	if err != nil {
		return nil, err
	}

	q := &billing.Quotation{
		QuotationNumber: m.QuotationNumber,
		ResourceID:      m.ResourceID,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		Interval:        interval,
		RawAmount:       valueobject.NewMoneyAUD(m.RawAmount),
		TaxMode:         m.TaxMode,
		TaxRatePercent:  m.TaxRatePercent,
		DepositSpec:     valueobject.DepositSpec{Type: m.DepositType, Value: m.DepositValue},
		Price: valueobject.PriceBreakdown{
			Net:   valueobject.NewMoneyAUD(m.PriceNet),
			Tax:   valueobject.NewMoneyAUD(m.PriceTax),
			Gross: valueobject.NewMoneyAUD(m.PriceGross),
		},
		Deposit: valueobject.DepositBreakdown{
			Deposit: valueobject.NewMoneyAUD(m.DepositAmount),
			Balance: valueobject.NewMoneyAUD(m.BalanceAmount),
		},
		Status:        m.Status,
		BookingID:     m.BookingID,
		ValidUntil:    m.ValidUntil,
		DeclineReason: m.DeclineReason,
		SentAt:        m.SentAt,
		AcceptedAt:    m.AcceptedAt,
		DeclinedAt:    m.DeclinedAt,
		ExpiredAt:     m.ExpiredAt,
	}
	m.PopulateOwnerAggregateRoot(&q.OwnerAggregateRoot)
	return q, nil
}

// FromDomain populates the persistence model from a domain Quotation entity.
func (m *QuotationModel) FromDomain(q *billing.Quotation) {
	m.FromDomainOwnerAggregateRoot(q.OwnerAggregateRoot)
	m.QuotationNumber = q.QuotationNumber
	m.ResourceID = q.ResourceID
	m.CustomerName = q.CustomerName
	m.CustomerEmail = q.CustomerEmail
	m.BookingDate = q.Interval.Date()
	m.StartMinute = q.Interval.StartMinute()
	m.EndMinute = q.Interval.EndMinute()
	m.RawAmount = q.RawAmount.Amount()
	m.TaxMode = q.TaxMode
	m.TaxRatePercent = q.TaxRatePercent
	m.DepositType = q.DepositSpec.Type
	if m.DepositType == "" {
		m.DepositType = valueobject.DepositNone
	}
	m.DepositValue = q.DepositSpec.Value
	m.PriceNet = q.Price.Net.Amount()
	m.PriceTax = q.Price.Tax.Amount()
	m.PriceGross = q.Price.Gross.Amount()
	m.DepositAmount = q.Deposit.Deposit.Amount()
	m.BalanceAmount = q.Deposit.Balance.Amount()
	m.Status = q.Status
	m.BookingID = q.BookingID
	m.ValidUntil = q.ValidUntil
	m.DeclineReason = q.DeclineReason
	m.SentAt = q.SentAt
	m.AcceptedAt = q.AcceptedAt
	m.DeclinedAt = q.DeclinedAt
	m.ExpiredAt = q.ExpiredAt
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation entity.
func QuotationModelFromDomain(q *billing.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The payment ledger is stored as a JSONB column; the one-active-invoice-per
// (owner, booking, kind) rule is backed by a partial unique index created in
// the migrations.
type InvoiceModel struct {
	OwnerAggregateModel
	InvoiceNumber      string                `gorm:"type:varchar(50);not null;index"`
	BookingID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	Kind               billing.InvoiceKind   `gorm:"type:varchar(20);not null"`
	PriceNet           decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PriceTax           decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PriceGross         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DepositAlreadyPaid decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AmountDue          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status             billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	DueDate            *time.Time            `gorm:"index"`
	Payments           billing.Payments      `gorm:"type:jsonb;not null;default:'[]'"`
	VoidReason         string                `gorm:"type:varchar(500)"`
	RefundReason       string                `gorm:"type:varchar(500)"`
	SentAt             *time.Time
	PaidAt             *time.Time
	VoidedAt           *time.Time
	RefundedAt         *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber: m.InvoiceNumber,
		BookingID:     m.BookingID,
		Kind:          m.Kind,
		Price: valueobject.PriceBreakdown{
			Net:   valueobject.NewMoneyAUD(m.PriceNet),
			Tax:   valueobject.NewMoneyAUD(m.PriceTax),
			Gross: valueobject.NewMoneyAUD(m.PriceGross),
		},
		DepositAlreadyPaid: valueobject.NewMoneyAUD(m.DepositAlreadyPaid),
		AmountDue:          valueobject.NewMoneyAUD(m.AmountDue),
		PaidAmount:         valueobject.NewMoneyAUD(m.PaidAmount),
		Status:             m.Status,
		DueDate:            m.DueDate,
		Payments:           m.Payments,
		VoidReason:         m.VoidReason,
		RefundReason:       m.RefundReason,
		SentAt:             m.SentAt,
		PaidAt:             m.PaidAt,
		VoidedAt:           m.VoidedAt,
		RefundedAt:         m.RefundedAt,
	}
	if inv.Payments == nil {
		inv.Payments = billing.Payments{}
	}
	m.PopulateOwnerAggregateRoot(&inv.OwnerAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOwnerAggregateRoot(inv.OwnerAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.BookingID = inv.BookingID
	m.Kind = inv.Kind
	m.PriceNet = inv.Price.Net.Amount()
	m.PriceTax = inv.Price.Tax.Amount()
	m.PriceGross = inv.Price.Gross.Amount()
	m.DepositAlreadyPaid = inv.DepositAlreadyPaid.Amount()
	m.AmountDue = inv.AmountDue.Amount()
	m.PaidAmount = inv.PaidAmount.Amount()
	m.Status = inv.Status
	m.DueDate = inv.DueDate
	m.Payments = inv.Payments
	if m.Payments == nil {
		m.Payments = billing.Payments{}
	}
	m.VoidReason = inv.VoidReason
	m.RefundReason = inv.RefundReason
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
	m.VoidedAt = inv.VoidedAt
	m.RefundedAt = inv.RefundedAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}
