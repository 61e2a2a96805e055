package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner finds an invoice by ID within an owner's scope
func (r *GormInvoiceRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by invoice number for an owner
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, ownerID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND invoice_number = ?", ownerID, invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all invoices for an owner with filtering
func (r *GormInvoiceRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindByBooking returns every invoice raised against a booking, newest first
func (r *GormInvoiceRepository) FindByBooking(ctx context.Context, ownerID, bookingID uuid.UUID) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND booking_id = ?", ownerID, bookingID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// FindActiveByBookingAndKind returns the invoice of the given kind that still
// blocks duplicates (any status outside VOID and REFUNDED), or ErrNotFound.
func (r *GormInvoiceRepository) FindActiveByBookingAndKind(ctx context.Context, ownerID, bookingID uuid.UUID, kind billing.InvoiceKind) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND booking_id = ? AND kind = ? AND status NOT IN ?",
			ownerID, bookingID, kind,
			[]string{string(billing.InvoiceStatusVoid), string(billing.InvoiceStatusRefunded)}).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOverdueCandidates returns sent or partially paid invoices past their
// due date, capped at limit for the overdue sweep.
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, cutoff time.Time, limit int) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]string{string(billing.InvoiceStatusSent), string(billing.InvoiceStatusPartial)}, cutoff).
		Order("due_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toInvoices(rows), nil
}

// NextNumber allocates the next invoice number for the owner.
// Format: INV-YYYY-NNNN (e.g. INV-2026-0001).
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.InvoiceModel{}, "invoice_number", ownerID, "INV")
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.InvoiceModel{}).
			Where("id = ?", invoice.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		// The aggregate increments its version on every transition, so the
		// row must still hold the version the aggregate was loaded with.
		expected := invoice.Version - 1
		if currentVersion != expected {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		invoice.UpdatedAt = time.Now()

		model := models.InvoiceModelFromDomain(invoice)
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"amount_due":    model.AmountDue,
				"paid_amount":   model.PaidAmount,
				"status":        model.Status,
				"due_date":      model.DueDate,
				"payments":      model.Payments,
				"void_reason":   model.VoidReason,
				"refund_reason": model.RefundReason,
				"sent_at":       model.SentAt,
				"paid_at":       model.PaidAt,
				"voided_at":     model.VoidedAt,
				"refunded_at":   model.RefundedAt,
				"version":       model.Version,
				"updated_at":    model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "booking_id":
			query = query.Where("booking_id = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func toInvoices(rows []models.InvoiceModel) []billing.Invoice {
	invoices := make([]billing.Invoice, 0, len(rows))
	for i := range rows {
		invoices = append(invoices, *rows[i].ToDomain())
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
