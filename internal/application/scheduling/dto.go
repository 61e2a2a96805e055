package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/scheduling"
)

// CreateBookingRequest is the request to create a booking
type CreateBookingRequest struct {
	ResourceID    uuid.UUID       `json:"resource_id" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerEmail string          `json:"customer_email" binding:"omitempty,email"`
	Date          time.Time       `json:"date" binding:"required"`
	StartTime     string          `json:"start_time" binding:"required"` // "HH:MM"
	EndTime       string          `json:"end_time" binding:"required"`   // "HH:MM"
	Source        string          `json:"source" binding:"omitempty,oneof=direct admin"`
	DepositType   string          `json:"deposit_type" binding:"omitempty,oneof=NONE FIXED PERCENTAGE"`
	DepositValue  decimal.Decimal `json:"deposit_value"`
}

// RescheduleBookingRequest is the request to move a booking to a new slot
type RescheduleBookingRequest struct {
	Date      time.Time `json:"date" binding:"required"`
	StartTime string    `json:"start_time" binding:"required"`
	EndTime   string    `json:"end_time" binding:"required"`
}

// CancelBookingRequest is the request to cancel a booking
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// UpsertRateRequest is the request to create or update a resource's rate card
type UpsertRateRequest struct {
	ResourceID  uuid.UUID       `json:"resource_id" binding:"required"`
	BillingMode string          `json:"billing_mode" binding:"required,oneof=HOURLY DAILY"`
	WeekdayRate decimal.Decimal `json:"weekday_rate" binding:"required"`
	WeekendRate decimal.Decimal `json:"weekend_rate" binding:"required"`
}

// BookingListFilter filters booking lists
type BookingListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	ResourceID *uuid.UUID `form:"resource_id"`
	Status     *string    `form:"status"`
	DateFrom   *time.Time `form:"date_from"`
	DateTo     *time.Time `form:"date_to"`
}

// PriceResponse is the reconciled monetary breakdown of a document
type PriceResponse struct {
	Net   string `json:"net"`
	Tax   string `json:"tax"`
	Gross string `json:"gross"`
}

// DepositResponse is the deposit split of a gross total
type DepositResponse struct {
	Deposit string `json:"deposit"`
	Balance string `json:"balance"`
}

// BookingResponse is the response representation of a booking
type BookingResponse struct {
	ID            uuid.UUID        `json:"id"`
	ResourceID    uuid.UUID        `json:"resource_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	Date          string           `json:"date"`
	StartTime     string           `json:"start_time"`
	EndTime       string           `json:"end_time"`
	Status        string           `json:"status"`
	Source        string           `json:"source"`
	Price         PriceResponse    `json:"price"`
	Deposit       DepositResponse  `json:"deposit"`
	QuotationID   *uuid.UUID       `json:"quotation_id,omitempty"`
	CancelReason  string           `json:"cancel_reason,omitempty"`
	ConfirmedAt   *time.Time       `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// RateResponse is the response representation of a rate card
type RateResponse struct {
	ID          uuid.UUID `json:"id"`
	ResourceID  uuid.UUID `json:"resource_id"`
	BillingMode string    `json:"billing_mode"`
	WeekdayRate string    `json:"weekday_rate"`
	WeekendRate string    `json:"weekend_rate"`
}

func clock(minute int) string {
	return time.Date(0, 1, 1, minute/60, minute%60, 0, 0, time.UTC).Format("15:04")
}

// ToBookingResponse converts a booking to its response representation
func ToBookingResponse(b *scheduling.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		ResourceID:    b.ResourceID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Date:          b.Interval.Date().Format("2006-01-02"),
		StartTime:     clock(b.Interval.StartMinute()),
		EndTime:       clock(b.Interval.EndMinute()),
		Status:        b.Status.String(),
		Source:        string(b.Source),
		Price: PriceResponse{
			Net:   b.Price.Net.StringFixed(2),
			Tax:   b.Price.Tax.StringFixed(2),
			Gross: b.Price.Gross.StringFixed(2),
		},
		Deposit: DepositResponse{
			Deposit: b.Deposit.Deposit.StringFixed(2),
			Balance: b.Deposit.Balance.StringFixed(2),
		},
		QuotationID:  b.QuotationID,
		CancelReason: b.CancelReason,
		ConfirmedAt:  b.ConfirmedAt,
		CancelledAt:  b.CancelledAt,
		CompletedAt:  b.CompletedAt,
		CreatedAt:    b.CreatedAt,
	}
}

// ToRateResponse converts a rate card to its response representation
func ToRateResponse(r *scheduling.ResourceRate) RateResponse {
	return RateResponse{
		ID:          r.ID,
		ResourceID:  r.ResourceID,
		BillingMode: r.BillingMode.String(),
		WeekdayRate: r.WeekdayRate.StringFixed(2),
		WeekendRate: r.WeekendRate.StringFixed(2),
	}
}
