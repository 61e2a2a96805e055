package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

func draftQuotation(t *testing.T) *Quotation {
	t.Helper()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	spec, err := valueobject.PercentageDeposit(decimal.NewFromInt(20))
	require.NoError(t, err)

	q, err := NewQuotation(
		uuid.New(),
		"Q-2025-0001",
		uuid.New(),
		"Alice", "alice@example.com",
		interval(t, day, "10:00", "14:00"),
		valueobject.NewMoneyAUD(decimal.NewFromInt(550)),
		TaxInclusive,
		decimal.NewFromInt(10),
		spec,
		nil,
	)
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q
}

func TestNewQuotation(t *testing.T) {
	t.Run("derives pricing on creation", func(t *testing.T) {
		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		spec, err := valueobject.PercentageDeposit(decimal.NewFromInt(20))
		require.NoError(t, err)

		q, err := NewQuotation(
			uuid.New(),
			"Q-2025-0001",
			uuid.New(),
			"Alice", "alice@example.com",
			interval(t, day, "10:00", "14:00"),
			valueobject.NewMoneyAUD(decimal.NewFromInt(550)),
			TaxInclusive,
			decimal.NewFromInt(10),
			spec,
			nil,
		)

		require.NoError(t, err)
		assert.Equal(t, QuotationStatusDraft, q.Status)
		assert.Equal(t, "500.00", q.Price.Net.StringFixed(2))
		assert.Equal(t, "50.00", q.Price.Tax.StringFixed(2))
		assert.Equal(t, "550.00", q.Price.Gross.StringFixed(2))
		assert.Equal(t, "110.00", q.Deposit.Deposit.StringFixed(2))
		assert.Equal(t, "440.00", q.Deposit.Balance.StringFixed(2))
		assert.Len(t, q.GetDomainEvents(), 1)
	})

	t.Run("fails with empty quotation number", func(t *testing.T) {
		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		q, err := NewQuotation(
			uuid.New(), "", uuid.New(), "Alice", "alice@example.com",
			interval(t, day, "10:00", "14:00"),
			valueobject.NewMoneyAUD(decimal.NewFromInt(550)),
			TaxInclusive, decimal.NewFromInt(10), valueobject.NoDeposit(), nil,
		)

		assert.Error(t, err)
		assert.Nil(t, q)
	})

	t.Run("fails with invalid tax mode", func(t *testing.T) {
		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		q, err := NewQuotation(
			uuid.New(), "Q-2025-0001", uuid.New(), "Alice", "alice@example.com",
			interval(t, day, "10:00", "14:00"),
			valueobject.NewMoneyAUD(decimal.NewFromInt(550)),
			TaxMode("FLAT"), decimal.NewFromInt(10), valueobject.NoDeposit(), nil,
		)

		assert.Error(t, err)
		assert.Nil(t, q)
	})
}

func TestQuotation_Lifecycle(t *testing.T) {
	t.Run("send then accept links the booking", func(t *testing.T) {
		q := draftQuotation(t)
		bookingID := uuid.New()

		require.NoError(t, q.Send())
		assert.Equal(t, QuotationStatusSent, q.Status)
		assert.NotNil(t, q.SentAt)

		require.NoError(t, q.Accept(bookingID))
		assert.Equal(t, QuotationStatusAccepted, q.Status)
		require.NotNil(t, q.BookingID)
		assert.Equal(t, bookingID, *q.BookingID)
	})

	t.Run("cannot accept a draft", func(t *testing.T) {
		q := draftQuotation(t)

		err := q.Accept(uuid.New())

		assert.Error(t, err)
		assert.Equal(t, QuotationStatusDraft, q.Status)
	})

	t.Run("accept requires a booking id", func(t *testing.T) {
		q := draftQuotation(t)
		require.NoError(t, q.Send())

		err := q.Accept(uuid.Nil)

		assert.Error(t, err)
		assert.Equal(t, QuotationStatusSent, q.Status)
	})

	t.Run("decline records the reason", func(t *testing.T) {
		q := draftQuotation(t)
		require.NoError(t, q.Send())

		require.NoError(t, q.Decline("went with another venue"))

		assert.Equal(t, QuotationStatusDeclined, q.Status)
		assert.Equal(t, "went with another venue", q.DeclineReason)
	})

	t.Run("draft and sent can expire", func(t *testing.T) {
		q := draftQuotation(t)
		require.NoError(t, q.Expire())
		assert.Equal(t, QuotationStatusExpired, q.Status)

		q2 := draftQuotation(t)
		require.NoError(t, q2.Send())
		require.NoError(t, q2.Expire())
		assert.Equal(t, QuotationStatusExpired, q2.Status)
	})

	t.Run("terminal quotations reject all transitions", func(t *testing.T) {
		q := draftQuotation(t)
		require.NoError(t, q.Send())
		require.NoError(t, q.Decline("no"))

		assert.Error(t, q.Send())
		assert.Error(t, q.Accept(uuid.New()))
		assert.Error(t, q.Expire())
	})
}

func TestQuotation_RecalculatePricing(t *testing.T) {
	t.Run("recomputes from stored inputs", func(t *testing.T) {
		q := draftQuotation(t)
		// Simulate a stale cached total
		q.Price = valueobject.PriceBreakdown{}
		q.Deposit = valueobject.DepositBreakdown{}

		require.NoError(t, q.RecalculatePricing())

		assert.Equal(t, "550.00", q.Price.Gross.StringFixed(2))
		assert.Equal(t, "110.00", q.Deposit.Deposit.StringFixed(2))
	})
}

func TestQuotation_IsExpiredBy(t *testing.T) {
	q := draftQuotation(t)
	assert.False(t, q.IsExpiredBy(time.Now()))

	deadline := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	q.ValidUntil = &deadline
	assert.False(t, q.IsExpiredBy(deadline))
	assert.True(t, q.IsExpiredBy(deadline.Add(time.Minute)))
}
