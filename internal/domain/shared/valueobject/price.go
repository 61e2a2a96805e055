package valueobject

import (
	"github.com/shopspring/decimal"
)

// PriceBreakdown is a reconciled monetary triple. The invariant
// net + tax == gross holds to the smallest currency unit; every field is
// rounded independently at the boundary that produced it.
type PriceBreakdown struct {
	Net   Money `json:"net"`
	Tax   Money `json:"tax"`
	Gross Money `json:"gross"`
}

// IsZero reports whether the breakdown carries no amounts
func (p PriceBreakdown) IsZero() bool {
	return p.Net.IsZero() && p.Tax.IsZero() && p.Gross.IsZero()
}

// Reconciles reports whether net + tax equals gross within one cent
func (p PriceBreakdown) Reconciles() bool {
	sum := p.Net.Amount().Add(p.Tax.Amount())
	diff := sum.Sub(p.Gross.Amount()).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(0.01))
}

// DepositBreakdown splits a gross total into the upfront deposit and the
// remaining balance. deposit + balance == gross exactly.
type DepositBreakdown struct {
	Deposit Money `json:"deposit"`
	Balance Money `json:"balance"`
}

// IsZero reports whether no deposit is required
func (d DepositBreakdown) IsZero() bool {
	return d.Deposit.IsZero()
}
