package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
	"github.com/venuedesk/backend/internal/infrastructure/persistence/models"
)

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForOwner finds a booking by ID within an owner's scope
func (r *GormBookingRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*scheduling.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForOwner finds all bookings for an owner with filtering
func (r *GormBookingRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]scheduling.Booking, error) {
	var rows []models.BookingModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BookingModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows)
}

// FindActiveForSlot returns pending and confirmed bookings for the resource on
// the given date, ordered by creation time so first-wins ties are stable.
func (r *GormBookingRepository) FindActiveForSlot(ctx context.Context, ownerID, resourceID uuid.UUID, date time.Time) ([]scheduling.Booking, error) {
	var rows []models.BookingModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND resource_id = ? AND booking_date = ? AND status IN ?",
			ownerID, resourceID, valueobject.NormalizeDate(date),
			[]string{string(scheduling.BookingStatusPending), string(scheduling.BookingStatusConfirmed)}).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toBookings(rows)
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, booking *scheduling.Booking) error {
	model := models.BookingModelFromDomain(booking)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormBookingRepository) SaveWithLock(ctx context.Context, booking *scheduling.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.BookingModel{}).
			Where("id = ?", booking.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != booking.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The booking has been modified by another user")
		}

		booking.Version++
		booking.UpdatedAt = time.Now()

		model := models.BookingModelFromDomain(booking)
		result := tx.Model(&models.BookingModel{}).
			Where("id = ? AND version = ?", booking.ID, currentVersion).
			Updates(map[string]interface{}{
				"customer_name":  model.CustomerName,
				"customer_email": model.CustomerEmail,
				"booking_date":   model.BookingDate,
				"start_minute":   model.StartMinute,
				"end_minute":     model.EndMinute,
				"status":         model.Status,
				"price_net":      model.PriceNet,
				"price_tax":      model.PriceTax,
				"price_gross":    model.PriceGross,
				"priced":         model.Priced,
				"deposit_type":   model.DepositType,
				"deposit_value":  model.DepositValue,
				"deposit_amount": model.DepositAmount,
				"balance_amount": model.BalanceAmount,
				"quotation_id":   model.QuotationID,
				"cancel_reason":  model.CancelReason,
				"confirmed_at":   model.ConfirmedAt,
				"cancelled_at":   model.CancelledAt,
				"completed_at":   model.CompletedAt,
				"version":        model.Version,
				"updated_at":     model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The booking has been modified by another user")
		}
		return nil
	})
}

// InReservationScope runs fn inside a transaction that serializes concurrent
// reservations of one resource on one date. A postgres advisory transaction
// lock keyed on (owner, resource, date) makes the conflict check and the
// write it guards atomic across instances.
func (r *GormBookingRepository) InReservationScope(ctx context.Context, ownerID, resourceID uuid.UUID, date time.Time, fn func(ctx context.Context, tx scheduling.BookingRepository) error) error {
	key := fmt.Sprintf("reservation:%s:%s:%s", ownerID, resourceID, valueobject.NormalizeDate(date).Format("2006-01-02"))
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return fmt.Errorf("failed to acquire reservation lock: %w", err)
		}
		return fn(ctx, &GormBookingRepository{db: tx})
	})
}

// applyFilter applies filter options to the query
func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "resource_id":
			query = query.Where("resource_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "date_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("booking_date >= ?", valueobject.NormalizeDate(t))
			}
		case "date_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("booking_date <= ?", valueobject.NormalizeDate(t))
			}
		case "quotation_id":
			query = query.Where("quotation_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BookingSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func toBookings(rows []models.BookingModel) ([]scheduling.Booking, error) {
	bookings := make([]scheduling.Booking, 0, len(rows))
	for i := range rows {
		b, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

// Ensure GormBookingRepository implements BookingRepository
var _ scheduling.BookingRepository = (*GormBookingRepository)(nil)
