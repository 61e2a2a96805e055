package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// BillingMode determines how a resource's applied rate is turned into a price
type BillingMode string

const (
	BillingHourly BillingMode = "HOURLY" // rate per hour of the interval
	BillingDaily  BillingMode = "DAILY"  // flat day rate, half-day under eight hours
)

// IsValid checks if the mode is a valid BillingMode
func (m BillingMode) IsValid() bool {
	return m == BillingHourly || m == BillingDaily
}

// String returns the string representation of BillingMode
func (m BillingMode) String() string {
	return string(m)
}

// ErrRateNotFound is returned when no rate card exists for a resource
var ErrRateNotFound = shared.NewDomainError("RATE_NOT_FOUND", "No rate card found for resource")

// ResourceRate is the owner-scoped rate card for a bookable resource.
// It is resolved fresh at calculation time and never cached across requests.
type ResourceRate struct {
	shared.OwnerAggregateRoot
	ResourceID  uuid.UUID
	BillingMode BillingMode
	WeekdayRate decimal.Decimal
	WeekendRate decimal.Decimal
}

// NewResourceRate creates a rate card for a resource
func NewResourceRate(ownerID, resourceID uuid.UUID, mode BillingMode, weekdayRate, weekendRate decimal.Decimal) (*ResourceRate, error) {
	if resourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource ID cannot be empty")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_MODE", "Billing mode must be hourly or daily")
	}
	if weekdayRate.IsNegative() || weekendRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}

	return &ResourceRate{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		ResourceID:         resourceID,
		BillingMode:        mode,
		WeekdayRate:        weekdayRate,
		WeekendRate:        weekendRate,
	}, nil
}

// UpdateRates replaces the weekday/weekend rates
func (r *ResourceRate) UpdateRates(weekdayRate, weekendRate decimal.Decimal) error {
	if weekdayRate.IsNegative() || weekendRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	r.WeekdayRate = weekdayRate
	r.WeekendRate = weekendRate
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// AppliedRate is the rate selected for a specific calendar date
type AppliedRate struct {
	Mode BillingMode
	Rate decimal.Decimal
}

// Resolve picks the weekend or weekday rate for the given date.
// Weekend means Saturday or Sunday by the date's day-of-week.
func (r *ResourceRate) Resolve(date time.Time) AppliedRate {
	rate := r.WeekdayRate
	if wd := valueobject.NormalizeDate(date).Weekday(); wd == time.Saturday || wd == time.Sunday {
		rate = r.WeekendRate
	}
	return AppliedRate{Mode: r.BillingMode, Rate: rate}
}
