package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// BookingModel is the persistence model for the Booking aggregate root.
// The reserved interval is stored as a date plus minutes-of-day so the
// half-open overlap query stays in plain integer arithmetic.
type BookingModel struct {
	OwnerAggregateModel
	ResourceID    uuid.UUID                `gorm:"type:uuid;not null;index:idx_bookings_slot,priority:1"`
	CustomerName  string                   `gorm:"type:varchar(200);not null"`
	CustomerEmail string                   `gorm:"type:varchar(320)"`
	BookingDate   time.Time                `gorm:"type:date;not null;index:idx_bookings_slot,priority:2"`
	StartMinute   int                      `gorm:"not null"`
	EndMinute     int                      `gorm:"not null"`
	Status        scheduling.BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Source        scheduling.BookingSource `gorm:"type:varchar(20);not null"`
	PriceNet      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	PriceTax      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	PriceGross    decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Priced        bool                     `gorm:"not null;default:false"`
	DepositType   valueobject.DepositType  `gorm:"type:varchar(20);not null;default:'NONE'"`
	DepositValue  decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	DepositAmount decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAmount decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	QuotationID   *uuid.UUID               `gorm:"type:uuid;index"`
	CancelReason  string                   `gorm:"type:varchar(500)"`
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking entity.
// Returns an error if the stored interval no longer parses, which indicates
// row corruption rather than a caller mistake.
func (m *BookingModel) ToDomain() (*scheduling.Booking, error) {
	interval, err := valueobject.NewTimeInterval(m.BookingDate, m.StartMinute, m.EndMinute)
	if err != nil {
		return nil, err
	}

	b := &scheduling.Booking{
		ResourceID:    m.ResourceID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		Interval:      interval,
		Status:        m.Status,
		Source:        m.Source,
		Price: valueobject.PriceBreakdown{
			Net:   valueobject.NewMoneyAUD(m.PriceNet),
			Tax:   valueobject.NewMoneyAUD(m.PriceTax),
			Gross: valueobject.NewMoneyAUD(m.PriceGross),
		},
		Priced:      m.Priced,
		DepositSpec: valueobject.DepositSpec{Type: m.DepositType, Value: m.DepositValue},
		Deposit: valueobject.DepositBreakdown{
			Deposit: valueobject.NewMoneyAUD(m.DepositAmount),
			Balance: valueobject.NewMoneyAUD(m.BalanceAmount),
		},
		QuotationID:  m.QuotationID,
		CancelReason: m.CancelReason,
		ConfirmedAt:  m.ConfirmedAt,
		CancelledAt:  m.CancelledAt,
		CompletedAt:  m.CompletedAt,
	}
	m.PopulateOwnerAggregateRoot(&b.OwnerAggregateRoot)
	return b, nil
}

// FromDomain populates the persistence model from a domain Booking entity.
func (m *BookingModel) FromDomain(b *scheduling.Booking) {
	m.FromDomainOwnerAggregateRoot(b.OwnerAggregateRoot)
	m.ResourceID = b.ResourceID
	m.CustomerName = b.CustomerName
	m.CustomerEmail = b.CustomerEmail
	m.BookingDate = b.Interval.Date()
	m.StartMinute = b.Interval.StartMinute()
	m.EndMinute = b.Interval.EndMinute()
	m.Status = b.Status
	m.Source = b.Source
	m.PriceNet = b.Price.Net.Amount()
	m.PriceTax = b.Price.Tax.Amount()
	m.PriceGross = b.Price.Gross.Amount()
	m.Priced = b.Priced
	m.DepositType = b.DepositSpec.Type
	if m.DepositType == "" {
		m.DepositType = valueobject.DepositNone
	}
	m.DepositValue = b.DepositSpec.Value
	m.DepositAmount = b.Deposit.Deposit.Amount()
	m.BalanceAmount = b.Deposit.Balance.Amount()
	m.QuotationID = b.QuotationID
	m.CancelReason = b.CancelReason
	m.ConfirmedAt = b.ConfirmedAt
	m.CancelledAt = b.CancelledAt
	m.CompletedAt = b.CompletedAt
}

// BookingModelFromDomain creates a new persistence model from a domain Booking entity.
func BookingModelFromDomain(b *scheduling.Booking) *BookingModel {
	m := &BookingModel{}
	m.FromDomain(b)
	return m
}

// ResourceRateModel is the persistence model for the ResourceRate aggregate root.
type ResourceRateModel struct {
	OwnerAggregateModel
	ResourceID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	BillingMode scheduling.BillingMode `gorm:"type:varchar(20);not null"`
	WeekdayRate decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	WeekendRate decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ResourceRateModel) TableName() string {
	return "resource_rates"
}

// ToDomain converts the persistence model to a domain ResourceRate entity.
func (m *ResourceRateModel) ToDomain() *scheduling.ResourceRate {
	r := &scheduling.ResourceRate{
		ResourceID:  m.ResourceID,
		BillingMode: m.BillingMode,
		WeekdayRate: m.WeekdayRate,
		WeekendRate: m.WeekendRate,
	}
	m.PopulateOwnerAggregateRoot(&r.OwnerAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain ResourceRate entity.
func (m *ResourceRateModel) FromDomain(r *scheduling.ResourceRate) {
	m.FromDomainOwnerAggregateRoot(r.OwnerAggregateRoot)
	m.ResourceID = r.ResourceID
	m.BillingMode = r.BillingMode
	m.WeekdayRate = r.WeekdayRate
	m.WeekendRate = r.WeekendRate
}

// ResourceRateModelFromDomain creates a new persistence model from a domain ResourceRate entity.
func ResourceRateModelFromDomain(r *scheduling.ResourceRate) *ResourceRateModel {
	m := &ResourceRateModel{}
	m.FromDomain(r)
	return m
}
