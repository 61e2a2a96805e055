package billing

import (
	"github.com/shopspring/decimal"

	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// TaxMode describes whether a stored amount already contains tax
type TaxMode string

const (
	TaxInclusive TaxMode = "INCLUSIVE" // amount is the gross; tax is carved out
	TaxExclusive TaxMode = "EXCLUSIVE" // amount is the net; tax is added on top
)

// IsValid checks if the mode is a valid TaxMode
func (m TaxMode) IsValid() bool {
	return m == TaxInclusive || m == TaxExclusive
}

// String returns the string representation of TaxMode
func (m TaxMode) String() string {
	return string(m)
}

// DefaultTaxRatePercent applies when the owner's settings carry no rate
var DefaultTaxRatePercent = decimal.NewFromInt(10)

// halfDayThresholdHours is the fixed business rule for daily billing:
// under eight hours a booking is charged at half the day rate.
var halfDayThresholdHours = decimal.NewFromInt(8)

var (
	oneHundred = decimal.NewFromInt(100)
	half       = decimal.NewFromFloat(0.5)
)

// ErrInvalidAmount is returned for negative or otherwise unusable amounts
var ErrInvalidAmount = shared.NewDomainError("INVALID_AMOUNT", "Amount must be a non-negative finite value")

// TaxPolicy is the owner-level tax configuration applied when a document
// carries no explicit mode or rate
type TaxPolicy struct {
	Mode        TaxMode
	RatePercent decimal.Decimal
}

// DefaultTaxPolicy returns the inclusive default-rate policy
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{Mode: TaxInclusive, RatePercent: DefaultTaxRatePercent}
}

// Every function below rounds to two decimal places at each named output
// boundary. Rounding once at the end would let a third decimal place leak
// between subtotal, tax and total, so each figure is rounded independently.

// CalculateBasePrice derives the pre-tax-split amount for an interval from
// the resolved rate. Hourly mode bills rate per hour; daily mode bills the
// full day rate at eight or more hours and half the rate below that.
func CalculateBasePrice(applied scheduling.AppliedRate, interval valueobject.TimeInterval) (valueobject.Money, error) {
	if applied.Rate.IsNegative() {
		return valueobject.Money{}, ErrInvalidAmount
	}

	hours := interval.DurationHours()

	var amount decimal.Decimal
	switch applied.Mode {
	case scheduling.BillingHourly:
		amount = applied.Rate.Mul(hours)
	case scheduling.BillingDaily:
		if hours.GreaterThanOrEqual(halfDayThresholdHours) {
			amount = applied.Rate
		} else {
			amount = applied.Rate.Mul(half)
		}
	default:
		return valueobject.Money{}, shared.NewDomainError("INVALID_BILLING_MODE", "Billing mode must be hourly or daily")
	}

	return valueobject.NewMoneyAUD(amount.Round(2)), nil
}

// SplitTax derives the reconciled {net, tax, gross} triple from a raw amount.
// Inclusive mode carves tax out of the amount; exclusive mode adds it on top.
// ratePercent is a percentage in [0,100) (10 means 10%); zero is a genuine 0%
// rate, not a request for the default. Callers resolve an unspecified rate
// against their TaxPolicy before calling.
func SplitTax(amount valueobject.Money, mode TaxMode, ratePercent decimal.Decimal) (valueobject.PriceBreakdown, error) {
	if amount.IsNegative() {
		return valueobject.PriceBreakdown{}, ErrInvalidAmount
	}
	if !mode.IsValid() {
		return valueobject.PriceBreakdown{}, shared.NewDomainError("INVALID_TAX_MODE", "Tax mode must be inclusive or exclusive")
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThanOrEqual(oneHundred) {
		return valueobject.PriceBreakdown{}, ErrInvalidAmount
	}

	currency := amount.Currency()
	raw := amount.Amount()

	var net, tax, gross decimal.Decimal
	switch mode {
	case TaxInclusive:
		divisor := decimal.NewFromInt(1).Add(ratePercent.Div(oneHundred))
		net = raw.Div(divisor).Round(2)
		tax = raw.Sub(net).Round(2)
		gross = raw.Round(2)
	case TaxExclusive:
		net = raw.Round(2)
		tax = net.Mul(ratePercent).Div(oneHundred).Round(2)
		gross = net.Add(tax).Round(2)
	}

	mk := func(d decimal.Decimal) valueobject.Money {
		m, _ := valueobject.NewMoney(d, currency)
		return m
	}

	return valueobject.PriceBreakdown{
		Net:   mk(net),
		Tax:   mk(tax),
		Gross: mk(gross),
	}, nil
}

// CalculateDeposit splits a gross total into the upfront deposit and the
// remaining balance according to the owner's deposit policy. Fixed deposits
// are gross-inclusive; percentages are clamped to [0,100]. The balance never
// goes negative.
func CalculateDeposit(gross valueobject.Money, spec valueobject.DepositSpec) (valueobject.DepositBreakdown, error) {
	if gross.IsNegative() {
		return valueobject.DepositBreakdown{}, ErrInvalidAmount
	}
	if err := spec.Validate(); err != nil {
		return valueobject.DepositBreakdown{}, err
	}

	currency := gross.Currency()
	mk := func(d decimal.Decimal) valueobject.Money {
		m, _ := valueobject.NewMoney(d, currency)
		return m
	}

	var deposit decimal.Decimal
	switch spec.Type {
	case valueobject.DepositFixed:
		deposit = spec.Value.Round(2)
	case valueobject.DepositPercentage:
		deposit = gross.Amount().Mul(spec.ClampedPercentage()).Div(oneHundred).Round(2)
	default:
		deposit = decimal.Zero
	}

	balance := gross.Amount().Sub(deposit).Round(2)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return valueobject.DepositBreakdown{
		Deposit: mk(deposit),
		Balance: mk(balance),
	}, nil
}

// DeriveInvoiceStatus is a pure function of the payment ledger state.
// Nothing paid leaves the current non-terminal status untouched; a partial
// sum moves to PARTIAL; covering the gross total moves to PAID. VOID and
// REFUNDED are never produced here - they require explicit operator action.
func DeriveInvoiceStatus(current InvoiceStatus, paid, grossTotal decimal.Decimal) InvoiceStatus {
	if paid.LessThanOrEqual(decimal.Zero) {
		return current
	}
	if paid.LessThan(grossTotal) {
		return InvoiceStatusPartial
	}
	return InvoiceStatusPaid
}
