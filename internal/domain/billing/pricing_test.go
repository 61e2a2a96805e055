package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

func interval(t *testing.T, day time.Time, start, end string) valueobject.TimeInterval {
	t.Helper()
	iv, err := valueobject.ParseTimeInterval(day, start, end)
	require.NoError(t, err)
	return iv
}

func TestCalculateBasePrice(t *testing.T) {
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("hourly weekday rate bills per hour", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingHourly, Rate: decimal.NewFromInt(50)}

		amount, err := CalculateBasePrice(applied, interval(t, monday, "10:00", "14:00"))

		require.NoError(t, err)
		assert.Equal(t, "200.00", amount.StringFixed(2))
	})

	t.Run("hourly weekend rate bills per hour", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingHourly, Rate: decimal.NewFromInt(75)}

		amount, err := CalculateBasePrice(applied, interval(t, saturday, "10:00", "14:00"))

		require.NoError(t, err)
		assert.Equal(t, "300.00", amount.StringFixed(2))
	})

	t.Run("hourly rate handles partial hours", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingHourly, Rate: decimal.NewFromInt(50)}

		amount, err := CalculateBasePrice(applied, interval(t, monday, "10:00", "11:30"))

		require.NoError(t, err)
		assert.Equal(t, "75.00", amount.StringFixed(2))
	})

	t.Run("daily rate bills the full day at eight hours", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingDaily, Rate: decimal.NewFromInt(200)}

		amount, err := CalculateBasePrice(applied, interval(t, monday, "10:00", "18:00"))

		require.NoError(t, err)
		assert.Equal(t, "200.00", amount.StringFixed(2))
	})

	t.Run("daily rate bills half under eight hours", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingDaily, Rate: decimal.NewFromInt(200)}

		amount, err := CalculateBasePrice(applied, interval(t, monday, "10:00", "14:00"))

		require.NoError(t, err)
		assert.Equal(t, "100.00", amount.StringFixed(2))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingHourly, Rate: decimal.NewFromInt(-1)}

		_, err := CalculateBasePrice(applied, interval(t, monday, "10:00", "14:00"))

		assert.Error(t, err)
	})

	t.Run("rejects unknown billing mode", func(t *testing.T) {
		applied := scheduling.AppliedRate{Mode: scheduling.BillingMode("WEEKLY"), Rate: decimal.NewFromInt(50)}

		_, err := CalculateBasePrice(applied, interval(t, monday, "10:00", "14:00"))

		assert.Error(t, err)
	})
}

func TestSplitTax(t *testing.T) {
	t.Run("inclusive carves tax out of the gross", func(t *testing.T) {
		price, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(550)), TaxInclusive, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, "500.00", price.Net.StringFixed(2))
		assert.Equal(t, "50.00", price.Tax.StringFixed(2))
		assert.Equal(t, "550.00", price.Gross.StringFixed(2))
		assert.True(t, price.Reconciles())
	})

	t.Run("exclusive adds tax on top of the net", func(t *testing.T) {
		price, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(500)), TaxExclusive, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, "500.00", price.Net.StringFixed(2))
		assert.Equal(t, "50.00", price.Tax.StringFixed(2))
		assert.Equal(t, "550.00", price.Gross.StringFixed(2))
	})

	t.Run("zero rate is a genuine zero percent", func(t *testing.T) {
		price, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(110)), TaxInclusive, decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, "110.00", price.Net.StringFixed(2))
		assert.Equal(t, "0.00", price.Tax.StringFixed(2))
		assert.Equal(t, "110.00", price.Gross.StringFixed(2))
	})

	t.Run("each figure rounds independently", func(t *testing.T) {
		price, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromFloat(99.99)), TaxInclusive, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, "90.90", price.Net.StringFixed(2))
		assert.Equal(t, "9.09", price.Tax.StringFixed(2))
		assert.Equal(t, "99.99", price.Gross.StringFixed(2))
		assert.True(t, price.Reconciles())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(-10)), TaxInclusive, decimal.NewFromInt(10))

		assert.Error(t, err)
	})

	t.Run("rejects rate at or above one hundred", func(t *testing.T) {
		_, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(100)), TaxExclusive, decimal.NewFromInt(100))
		assert.Error(t, err)

		_, err = SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(100)), TaxExclusive, decimal.NewFromInt(-5))
		assert.Error(t, err)
	})

	t.Run("rejects invalid mode", func(t *testing.T) {
		_, err := SplitTax(valueobject.NewMoneyAUD(decimal.NewFromInt(100)), TaxMode("FLAT"), decimal.NewFromInt(10))

		assert.Error(t, err)
	})
}

// Treating the inclusive split's net as an exclusive base with the same rate
// must reproduce the original gross within one cent.
func TestSplitTax_RoundTrip(t *testing.T) {
	amounts := []string{"550", "99.99", "1234.56", "0.03", "10000", "87.65"}
	rates := []int64{0, 5, 10, 15, 20, 33}
	cent := decimal.NewFromFloat(0.01)

	for _, a := range amounts {
		for _, r := range rates {
			amount, err := decimal.NewFromString(a)
			require.NoError(t, err)
			rate := decimal.NewFromInt(r)

			inclusive, err := SplitTax(valueobject.NewMoneyAUD(amount), TaxInclusive, rate)
			require.NoError(t, err)

			back, err := SplitTax(inclusive.Net, TaxExclusive, rate)
			require.NoError(t, err)

			diff := back.Gross.Amount().Sub(inclusive.Gross.Amount()).Abs()
			assert.True(t, diff.LessThanOrEqual(cent), "amount %s rate %d: gross %s vs %s", a, r, back.Gross, inclusive.Gross)
		}
	}
}

func TestCalculateDeposit(t *testing.T) {
	gross := valueobject.NewMoneyAUD(decimal.NewFromInt(550))

	t.Run("no deposit leaves the full balance", func(t *testing.T) {
		breakdown, err := CalculateDeposit(gross, valueobject.NoDeposit())

		require.NoError(t, err)
		assert.Equal(t, "0.00", breakdown.Deposit.StringFixed(2))
		assert.Equal(t, "550.00", breakdown.Balance.StringFixed(2))
	})

	t.Run("percentage deposit from the gross", func(t *testing.T) {
		spec, err := valueobject.PercentageDeposit(decimal.NewFromInt(20))
		require.NoError(t, err)

		breakdown, err := CalculateDeposit(gross, spec)

		require.NoError(t, err)
		assert.Equal(t, "110.00", breakdown.Deposit.StringFixed(2))
		assert.Equal(t, "440.00", breakdown.Balance.StringFixed(2))
	})

	t.Run("fixed deposit is gross-inclusive", func(t *testing.T) {
		spec, err := valueobject.FixedDeposit(decimal.NewFromInt(200))
		require.NoError(t, err)

		breakdown, err := CalculateDeposit(gross, spec)

		require.NoError(t, err)
		assert.Equal(t, "200.00", breakdown.Deposit.StringFixed(2))
		assert.Equal(t, "350.00", breakdown.Balance.StringFixed(2))
	})

	t.Run("fixed deposit above the gross clamps the balance at zero", func(t *testing.T) {
		spec, err := valueobject.FixedDeposit(decimal.NewFromInt(600))
		require.NoError(t, err)

		breakdown, err := CalculateDeposit(gross, spec)

		require.NoError(t, err)
		assert.Equal(t, "600.00", breakdown.Deposit.StringFixed(2))
		assert.Equal(t, "0.00", breakdown.Balance.StringFixed(2))
	})

	t.Run("deposit and balance always sum to the gross", func(t *testing.T) {
		grosses := []string{"550", "99.99", "0.01", "1234.56"}
		percents := []int64{1, 20, 50, 99, 100}

		for _, g := range grosses {
			amount, err := decimal.NewFromString(g)
			require.NoError(t, err)
			money := valueobject.NewMoneyAUD(amount)

			for _, p := range percents {
				spec, err := valueobject.PercentageDeposit(decimal.NewFromInt(p))
				require.NoError(t, err)

				breakdown, err := CalculateDeposit(money, spec)
				require.NoError(t, err)

				sum := breakdown.Deposit.Amount().Add(breakdown.Balance.Amount())
				assert.True(t, sum.Equal(amount.Round(2)), "gross %s pct %d: %s + %s", g, p, breakdown.Deposit, breakdown.Balance)
			}
		}
	})

	t.Run("rejects negative gross", func(t *testing.T) {
		_, err := CalculateDeposit(valueobject.NewMoneyAUD(decimal.NewFromInt(-1)), valueobject.NoDeposit())

		assert.Error(t, err)
	})
}

func TestDeriveInvoiceStatus(t *testing.T) {
	due := decimal.NewFromInt(440)

	t.Run("nothing paid keeps the current status", func(t *testing.T) {
		assert.Equal(t, InvoiceStatusSent, DeriveInvoiceStatus(InvoiceStatusSent, decimal.Zero, due))
		assert.Equal(t, InvoiceStatusOverdue, DeriveInvoiceStatus(InvoiceStatusOverdue, decimal.Zero, due))
	})

	t.Run("partial payment moves to partial", func(t *testing.T) {
		assert.Equal(t, InvoiceStatusPartial, DeriveInvoiceStatus(InvoiceStatusSent, decimal.NewFromInt(200), due))
	})

	t.Run("covering the total moves to paid", func(t *testing.T) {
		assert.Equal(t, InvoiceStatusPaid, DeriveInvoiceStatus(InvoiceStatusPartial, due, due))
	})
}
