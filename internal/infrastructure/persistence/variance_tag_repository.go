package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/restoops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVarianceTagRepository implements VarianceTagRepository using GORM
type GormVarianceTagRepository struct {
	db *gorm.DB
}

// NewGormVarianceTagRepository creates a new GormVarianceTagRepository
func NewGormVarianceTagRepository(db *gorm.DB) *GormVarianceTagRepository {
	return &GormVarianceTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormVarianceTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.VarianceTag, error) {
	var model models.VarianceTagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByObservation finds the tag for an (item, branch, period) observation
func (r *GormVarianceTagRepository) FindByObservation(ctx context.Context, itemID, branchID uuid.UUID, periodStart, periodEnd time.Time) (*inventory.VarianceTag, error) {
	var model models.VarianceTagModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND branch_id = ? AND period_start = ? AND period_end = ?",
			itemID, branchID, periodStart, periodEnd).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBranchAndPeriod finds a branch's tags overlapping a window
func (r *GormVarianceTagRepository) FindByBranchAndPeriod(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]inventory.VarianceTag, error) {
	var tagModels []models.VarianceTagModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND period_start <= ? AND period_end >= ?", branchID, end, start).
		Order("period_start ASC").
		Find(&tagModels).Error; err != nil {
		return nil, err
	}

	tags := make([]inventory.VarianceTag, len(tagModels))
	for i := range tagModels {
		tags[i] = *tagModels[i].ToDomain()
	}
	return tags, nil
}

// Save creates or updates a tag
func (r *GormVarianceTagRepository) Save(ctx context.Context, tag *inventory.VarianceTag) error {
	model := models.VarianceTagModelFromDomain(tag)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a tag
func (r *GormVarianceTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.VarianceTagModel{}, "id = ?", id).Error
}

// Ensure GormVarianceTagRepository implements VarianceTagRepository
var _ inventory.VarianceTagRepository = (*GormVarianceTagRepository)(nil)
