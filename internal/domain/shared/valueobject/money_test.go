package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		require.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyFromFloat(150.25)
	b := NewMoneyFromFloat(49.75)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "200.00", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "100.50", diff.StringFixed(2))
	})

	t.Run("multiply", func(t *testing.T) {
		double := b.Multiply(decimal.NewFromInt(2))
		assert.Equal(t, "99.50", double.StringFixed(2))
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := a.Divide(decimal.Zero)
		require.Error(t, err)
	})

	t.Run("currency mismatch fails", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(10), USD)
		require.NoError(t, err)
		_, err = a.Add(usd)
		require.Error(t, err)
		_, err = a.Subtract(usd)
		require.Error(t, err)
		_, err = a.LessThan(usd)
		require.Error(t, err)
	})
}

func TestMoney_Rounding(t *testing.T) {
	m := NewMoneyFromFloat(10.005)
	assert.Equal(t, "10.01", m.RoundCents().StringFixed(2))

	m = NewMoneyFromFloat(10.004)
	assert.Equal(t, "10.00", m.RoundCents().StringFixed(2))
}

func TestMoney_CalculatePercentage(t *testing.T) {
	gross := NewMoneyFromFloat(550)
	deposit := gross.CalculatePercentage(decimal.NewFromInt(20)).RoundCents()
	assert.Equal(t, "110.00", deposit.StringFixed(2))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyFromFloat(10)
	big := NewMoneyFromFloat(20)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := big.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, small.Equals(NewMoneyFromFloat(10)))
	assert.False(t, small.Equals(big))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyFromFloat(123.45)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.50"))
	assert.Equal(t, "42.50", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	require.Error(t, m.Scan(true))
}
