package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositType_IsValid(t *testing.T) {
	assert.True(t, DepositNone.IsValid())
	assert.True(t, DepositFixed.IsValid())
	assert.True(t, DepositPercentage.IsValid())
	assert.False(t, DepositType("INSTALLMENTS").IsValid())
	assert.False(t, DepositType("").IsValid())
}

func TestDepositSpec_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		spec    DepositSpec
		wantErr bool
	}{
		{"fixed positive", DepositSpec{Type: DepositFixed, Value: decimal.NewFromInt(100)}, false},
		{"fixed zero", DepositSpec{Type: DepositFixed, Value: decimal.Zero}, true},
		{"fixed negative", DepositSpec{Type: DepositFixed, Value: decimal.NewFromInt(-5)}, true},
		{"percentage in range", DepositSpec{Type: DepositPercentage, Value: decimal.NewFromInt(20)}, false},
		{"percentage zero", DepositSpec{Type: DepositPercentage, Value: decimal.Zero}, false},
		{"percentage hundred", DepositSpec{Type: DepositPercentage, Value: decimal.NewFromInt(100)}, false},
		{"percentage negative", DepositSpec{Type: DepositPercentage, Value: decimal.NewFromInt(-1)}, true},
		{"percentage above hundred", DepositSpec{Type: DepositPercentage, Value: decimal.NewFromInt(101)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec DepositSpec
			var err error
			switch tt.spec.Type {
			case DepositFixed:
				spec, err = FixedDeposit(tt.spec.Value)
			case DepositPercentage:
				spec, err = PercentageDeposit(tt.spec.Value)
			}

			if tt.wantErr {
				require.Error(t, err)
				var invalid *ErrInvalidDepositSpec
				assert.ErrorAs(t, err, &invalid)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.spec.Type, spec.Type)
				assert.NoError(t, spec.Validate())
			}
		})
	}

	t.Run("no deposit is always valid", func(t *testing.T) {
		assert.NoError(t, NoDeposit().Validate())
	})

	t.Run("unknown type fails validation", func(t *testing.T) {
		err := DepositSpec{Type: "LAYBY", Value: decimal.NewFromInt(10)}.Validate()
		require.Error(t, err)
	})
}

func TestDepositSpec_ClampedPercentage(t *testing.T) {
	clamp := func(v int64) decimal.Decimal {
		return DepositSpec{Type: DepositPercentage, Value: decimal.NewFromInt(v)}.ClampedPercentage()
	}

	assert.True(t, clamp(-10).IsZero())
	assert.True(t, clamp(150).Equal(decimal.NewFromInt(100)))
	assert.True(t, clamp(20).Equal(decimal.NewFromInt(20)))
}

func TestDepositSpec_IsZero(t *testing.T) {
	assert.True(t, NoDeposit().IsZero())
	assert.True(t, DepositSpec{}.IsZero())

	fixed, err := FixedDeposit(decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.False(t, fixed.IsZero())
}
