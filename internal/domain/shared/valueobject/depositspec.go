package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DepositType describes how the upfront deposit for a booking is determined
type DepositType string

const (
	DepositNone       DepositType = "NONE"       // no deposit required
	DepositFixed      DepositType = "FIXED"      // fixed gross-inclusive amount
	DepositPercentage DepositType = "PERCENTAGE" // percentage of the gross total
)

// IsValid checks if the deposit type is a valid DepositType
func (t DepositType) IsValid() bool {
	switch t {
	case DepositNone, DepositFixed, DepositPercentage:
		return true
	}
	return false
}

// String returns the string representation of DepositType
func (t DepositType) String() string {
	return string(t)
}

// ErrInvalidDepositSpec is returned when a deposit spec fails validation
type ErrInvalidDepositSpec struct {
	Reason string
}

// Error implements the error interface
func (e *ErrInvalidDepositSpec) Error() string {
	return fmt.Sprintf("invalid deposit spec: %s", e.Reason)
}

// DepositSpec is the owner's policy for how much of a gross total must be
// paid upfront. Fixed values are gross-inclusive; percentages are clamped
// to [0,100] at calculation time.
type DepositSpec struct {
	Type  DepositType     `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// NoDeposit returns a spec requiring no upfront payment
func NoDeposit() DepositSpec {
	return DepositSpec{Type: DepositNone, Value: decimal.Zero}
}

// FixedDeposit returns a spec requiring a fixed gross-inclusive amount
func FixedDeposit(value decimal.Decimal) (DepositSpec, error) {
	spec := DepositSpec{Type: DepositFixed, Value: value}
	if err := spec.Validate(); err != nil {
		return DepositSpec{}, err
	}
	return spec, nil
}

// PercentageDeposit returns a spec requiring a percentage of the gross total
func PercentageDeposit(pct decimal.Decimal) (DepositSpec, error) {
	spec := DepositSpec{Type: DepositPercentage, Value: pct}
	if err := spec.Validate(); err != nil {
		return DepositSpec{}, err
	}
	return spec, nil
}

// Validate checks the spec against its type's constraints
func (s DepositSpec) Validate() error {
	switch s.Type {
	case DepositNone:
		return nil
	case DepositFixed:
		if s.Value.LessThanOrEqual(decimal.Zero) {
			return &ErrInvalidDepositSpec{Reason: "fixed deposit must be positive"}
		}
		return nil
	case DepositPercentage:
		if s.Value.IsNegative() || s.Value.GreaterThan(decimal.NewFromInt(100)) {
			return &ErrInvalidDepositSpec{Reason: "percentage must be within [0,100]"}
		}
		return nil
	}
	return &ErrInvalidDepositSpec{Reason: fmt.Sprintf("unknown deposit type %q", s.Type)}
}

// IsZero reports whether the spec requires no deposit
func (s DepositSpec) IsZero() bool {
	return s.Type == "" || s.Type == DepositNone
}

// ClampedPercentage returns the percentage value clamped to [0,100].
// Only meaningful for percentage specs.
func (s DepositSpec) ClampedPercentage() decimal.Decimal {
	if s.Value.IsNegative() {
		return decimal.Zero
	}
	if hundred := decimal.NewFromInt(100); s.Value.GreaterThan(hundred) {
		return hundred
	}
	return s.Value
}
