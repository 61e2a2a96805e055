package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// newMockBookingRepository creates a GormBookingRepository with a mocked SQL connection
func newMockBookingRepository(t *testing.T) (*GormBookingRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormBookingRepository(gormDB), mock, mockDB
}

func bookingColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "version", "owner_id",
		"resource_id", "customer_name", "customer_email",
		"booking_date", "start_minute", "end_minute",
		"status", "source",
		"price_net", "price_tax", "price_gross",
		"deposit_type", "deposit_value", "deposit_amount", "balance_amount",
	}
}

func TestGormBookingRepository_FindByID(t *testing.T) {
	t.Run("finds existing booking and rebuilds the interval", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		bookingID := uuid.New()
		ownerID := uuid.New()
		resourceID := uuid.New()
		date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, time.Now(), time.Now(), 1, ownerID,
				resourceID, "Alice", "alice@example.com",
				date, 600, 840,
				"confirmed", "admin",
				decimal.NewFromFloat(181.82), decimal.NewFromFloat(18.18), decimal.NewFromInt(200),
				"NONE", decimal.Zero, decimal.Zero, decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(bookingID, 1).
			WillReturnRows(rows)

		booking, err := repo.FindByID(context.Background(), bookingID)

		require.NoError(t, err)
		require.NotNil(t, booking)
		assert.Equal(t, bookingID, booking.ID)
		assert.Equal(t, ownerID, booking.OwnerID)
		assert.Equal(t, "2025-03-03 10:00-14:00", booking.Interval.String())
		assert.Equal(t, "200.00", booking.Price.Gross.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing booking", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(bookingID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		booking, err := repo.FindByID(context.Background(), bookingID)

		assert.Error(t, err)
		assert.Nil(t, booking)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookingRepository_FindActiveForSlot(t *testing.T) {
	t.Run("selects only pending and confirmed rows for the slot", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		resourceID := uuid.New()
		date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows(bookingColumns()).
			AddRow(uuid.New(), time.Now(), time.Now(), 1, ownerID,
				resourceID, "Alice", "",
				date, 600, 840,
				"pending", "direct",
				decimal.Zero, decimal.Zero, decimal.Zero,
				"NONE", decimal.Zero, decimal.Zero, decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE owner_id = \$1 AND resource_id = \$2 AND booking_date = \$3 AND status IN \(\$4,\$5\) ORDER BY created_at ASC`).
			WithArgs(ownerID, resourceID, date, "pending", "confirmed").
			WillReturnRows(rows)

		// Time-of-day on the lookup date is ignored
		bookings, err := repo.FindActiveForSlot(context.Background(), ownerID, resourceID, date.Add(9*time.Hour))

		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "Alice", bookings[0].CustomerName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookingRepository_Save(t *testing.T) {
	t.Run("updates an existing row in place", func(t *testing.T) {
		repo, mock, mockDB := newMockBookingRepository(t)
		defer mockDB.Close()

		iv, err := valueobject.ParseTimeInterval(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "10:00", "14:00")
		require.NoError(t, err)
		booking, err := scheduling.NewBooking(uuid.New(), uuid.New(), "Alice", "", iv, scheduling.SourceAdmin)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), booking)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
