package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/shared"
)

// newMockInvoiceRepository creates a GormInvoiceRepository with a mocked SQL connection
func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func invoiceColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "version", "owner_id",
		"invoice_number", "booking_id", "kind",
		"price_net", "price_tax", "price_gross",
		"deposit_already_paid", "amount_due", "paid_amount",
		"status", "payments",
	}
}

func TestGormInvoiceRepository_FindActiveByBookingAndKind(t *testing.T) {
	t.Run("finds the blocking invoice for a kind", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		bookingID := uuid.New()
		invoiceID := uuid.New()

		rows := sqlmock.NewRows(invoiceColumns()).
			AddRow(invoiceID, time.Now(), time.Now(), 1, ownerID,
				"INV-2025-0001", bookingID, "FINAL",
				decimal.NewFromInt(500), decimal.NewFromInt(50), decimal.NewFromInt(550),
				decimal.NewFromInt(110), decimal.NewFromInt(440), decimal.Zero,
				"SENT", []byte(`[]`))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE owner_id = \$1 AND booking_id = \$2 AND kind = \$3 AND status NOT IN \(\$4,\$5\) ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, bookingID, "FINAL", "VOID", "REFUNDED", 1).
			WillReturnRows(rows)

		invoice, err := repo.FindActiveByBookingAndKind(context.Background(), ownerID, bookingID, billing.InvoiceKindFinal)

		require.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.Equal(t, "440.00", invoice.AmountDue.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when only voided invoices exist", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE owner_id = \$1 AND booking_id = \$2 AND kind = \$3 AND status NOT IN \(\$4,\$5\) ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, bookingID, "DEPOSIT", "VOID", "REFUNDED", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindActiveByBookingAndKind(context.Background(), ownerID, bookingID, billing.InvoiceKindDeposit)

		assert.Nil(t, invoice)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindOverdueCandidates(t *testing.T) {
	t.Run("selects sent and partial invoices past the cutoff", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		cutoff := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(invoiceColumns()).
			AddRow(uuid.New(), time.Now(), time.Now(), 1, uuid.New(),
				"INV-2025-0002", uuid.New(), "FINAL",
				decimal.NewFromInt(500), decimal.NewFromInt(50), decimal.NewFromInt(550),
				decimal.Zero, decimal.NewFromInt(550), decimal.NewFromInt(200),
				"PARTIAL", []byte(`[{"id":"`+uuid.NewString()+`","amount":"200","method":"eft","recorded_at":"2025-03-01T10:00:00Z"}]`))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE status IN \(\$1,\$2\) AND due_date IS NOT NULL AND due_date < \$3 ORDER BY due_date ASC LIMIT .*`).
			WithArgs("SENT", "PARTIAL", cutoff, 50).
			WillReturnRows(rows)

		invoices, err := repo.FindOverdueCandidates(context.Background(), cutoff, 50)

		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, billing.InvoiceStatusPartial, invoices[0].Status)
		assert.Equal(t, 1, invoices[0].PaymentCount())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_NextNumber(t *testing.T) {
	t.Run("continues the sequence from the highest number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()

		year := time.Now().Year()
		rows := sqlmock.NewRows([]string{"invoice_number"}).
			AddRow(fmt.Sprintf("INV-%d-0041", year))
		mock.ExpectQuery(`SELECT "invoice_number" FROM "invoices" WHERE owner_id = \$1 AND invoice_number LIKE \$2 ORDER BY invoice_number DESC LIMIT .*`).
			WillReturnRows(rows)

		number, err := repo.NextNumber(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-0042", year), number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("starts at one for a fresh year", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT "invoice_number" FROM "invoices"`).
			WillReturnRows(sqlmock.NewRows([]string{"invoice_number"}))

		number, err := repo.NextNumber(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Contains(t, number, "INV-")
		assert.Contains(t, number, "-0001")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
