package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/infrastructure/persistence/models"
)

// GormResourceRateRepository implements ResourceRateRepository using GORM
type GormResourceRateRepository struct {
	db *gorm.DB
}

// NewGormResourceRateRepository creates a new GormResourceRateRepository
func NewGormResourceRateRepository(db *gorm.DB) *GormResourceRateRepository {
	return &GormResourceRateRepository{db: db}
}

// FindByResource returns the rate card for the resource, or ErrRateNotFound
func (r *GormResourceRateRepository) FindByResource(ctx context.Context, ownerID, resourceID uuid.UUID) (*scheduling.ResourceRate, error) {
	var model models.ResourceRateModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND resource_id = ?", ownerID, resourceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrRateNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a rate card
func (r *GormResourceRateRepository) Save(ctx context.Context, rate *scheduling.ResourceRate) error {
	model := models.ResourceRateModelFromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormResourceRateRepository implements ResourceRateRepository
var _ scheduling.ResourceRateRepository = (*GormResourceRateRepository)(nil)
