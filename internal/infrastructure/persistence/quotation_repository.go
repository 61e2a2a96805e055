package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
	"github.com/venuedesk/backend/internal/infrastructure/persistence/models"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForOwner finds a quotation by ID within an owner's scope
func (r *GormQuotationRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
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

// FindByNumber finds a quotation by quotation number for an owner
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, ownerID uuid.UUID, quotationNumber string) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND quotation_number = ?", ownerID, quotationNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForOwner finds all quotations for an owner with filtering
func (r *GormQuotationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Quotation, error) {
	var rows []models.QuotationModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.QuotationModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toQuotations(rows)
}

// FindExpirable returns sendable quotations whose validity window has passed.
// Results are capped at limit so the expiry sweep works in batches.
func (r *GormQuotationRepository) FindExpirable(ctx context.Context, cutoff time.Time, limit int) ([]billing.Quotation, error) {
	var rows []models.QuotationModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			[]string{string(billing.QuotationStatusDraft), string(billing.QuotationStatusSent)}, cutoff).
		Order("valid_until ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toQuotations(rows)
}

// NextNumber allocates the next quotation number for the owner.
// Format: Q-YYYY-NNNN (e.g. Q-2026-0001).
func (r *GormQuotationRepository) NextNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.QuotationModel{}, "quotation_number", ownerID, "Q")
}

// Save creates or updates a quotation
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *billing.Quotation) error {
	model := models.QuotationModelFromDomain(quotation)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *billing.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.QuotationModel{}).
			Where("id = ?", quotation.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != quotation.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The quotation has been modified by another user")
		}

		quotation.Version++
		quotation.UpdatedAt = time.Now()

		model := models.QuotationModelFromDomain(quotation)
		result := tx.Model(&models.QuotationModel{}).
			Where("id = ? AND version = ?", quotation.ID, currentVersion).
			Updates(map[string]interface{}{
				"raw_amount":       model.RawAmount,
				"tax_mode":         model.TaxMode,
				"tax_rate_percent": model.TaxRatePercent,
				"deposit_type":     model.DepositType,
				"deposit_value":    model.DepositValue,
				"price_net":        model.PriceNet,
				"price_tax":        model.PriceTax,
				"price_gross":      model.PriceGross,
				"deposit_amount":   model.DepositAmount,
				"balance_amount":   model.BalanceAmount,
				"status":           model.Status,
				"booking_id":       model.BookingID,
				"valid_until":      model.ValidUntil,
				"decline_reason":   model.DeclineReason,
				"sent_at":          model.SentAt,
				"accepted_at":      model.AcceptedAt,
				"declined_at":      model.DeclinedAt,
				"expired_at":       model.ExpiredAt,
				"version":          model.Version,
				"updated_at":       model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The quotation has been modified by another user")
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func toQuotations(rows []models.QuotationModel) ([]billing.Quotation, error) {
	quotations := make([]billing.Quotation, 0, len(rows))
	for i := range rows {
		q, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, *q)
	}
	return quotations, nil
}

// nextDocumentNumber allocates the next PREFIX-YYYY-NNNN document number for
// an owner by scanning the highest existing number for the current year.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, column string, ownerID uuid.UUID, prefix string) (string, error) {
	year := time.Now().Year()
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, year)

	var numbers []string
	err := db.WithContext(ctx).
		Model(model).
		Where("owner_id = ? AND "+column+" LIKE ?", ownerID, yearPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &numbers).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var last string
	if len(numbers) > 0 {
		last = numbers[0]
	}

	var nextNum int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%04d", yearPrefix, nextNum), nil
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ billing.QuotationRepository = (*GormQuotationRepository)(nil)
