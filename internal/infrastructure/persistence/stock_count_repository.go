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

// GormStockCountRepository implements StockCountRepository using GORM
type GormStockCountRepository struct {
	db *gorm.DB
}

// NewGormStockCountRepository creates a new GormStockCountRepository
func NewGormStockCountRepository(db *gorm.DB) *GormStockCountRepository {
	return &GormStockCountRepository{db: db}
}

// FindByID finds a count with its lines
func (r *GormStockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLineID finds the count owning a given line, with all lines loaded
func (r *GormStockCountRepository) FindByLineID(ctx context.Context, lineID uuid.UUID) (*inventory.StockCount, error) {
	var line models.StockCountLineModel
	if err := r.db.WithContext(ctx).First(&line, "id = ?", lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, line.StockCountID)
}

// FindByBranch finds counts for a branch, newest first, headers only
func (r *GormStockCountRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockCount, error) {
	var countModels []models.StockCountModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.StockCountModel{}).
			Where("branch_id = ?", branchID),
		filter, "created_at DESC",
	)

	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}
	return toDomainCounts(countModels), nil
}

// FindByBranchAndStatus finds a branch's counts in a given status
func (r *GormStockCountRepository) FindByBranchAndStatus(ctx context.Context, branchID uuid.UUID, status inventory.CountStatus, filter shared.Filter) ([]inventory.StockCount, error) {
	var countModels []models.StockCountModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.StockCountModel{}).
			Where("branch_id = ? AND status = ?", branchID, status),
		filter, "created_at DESC",
	)

	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}
	return toDomainCounts(countModels), nil
}

// FindApprovedInRange finds approved counts for a branch within a window,
// lines included
func (r *GormStockCountRepository) FindApprovedInRange(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]inventory.StockCount, error) {
	var countModels []models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("branch_id = ? AND status = ? AND approved_at >= ? AND approved_at <= ?",
			branchID, inventory.CountStatusApproved, start, end).
		Order("approved_at ASC").
		Find(&countModels).Error; err != nil {
		return nil, err
	}
	return toDomainCounts(countModels), nil
}

// Save persists the count header without touching lines
func (r *GormStockCountRepository) Save(ctx context.Context, sc *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(sc)
	return r.db.WithContext(ctx).Omit("Lines").Save(model).Error
}

// SaveWithLines persists the count and all of its lines
func (r *GormStockCountRepository) SaveWithLines(ctx context.Context, sc *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(sc)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveLine persists a single line
func (r *GormStockCountRepository) SaveLine(ctx context.Context, line *inventory.StockCountLine) error {
	model := models.StockCountLineModelFromDomain(line)
	return r.db.WithContext(ctx).Save(model).Error
}

// UpdateStatusIfCurrent persists the count's workflow fields with a
// conditional write on the stored status. The WHERE clause makes racing
// transitions serialize at the database: whichever update runs second sees
// zero affected rows and reports false, so a count can never be approved or
// cancelled twice.
func (r *GormStockCountRepository) UpdateStatusIfCurrent(ctx context.Context, sc *inventory.StockCount, current inventory.CountStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockCountModel{}).
		Where("id = ? AND status = ?", sc.ID, current).
		Updates(map[string]any{
			"status":        sc.Status,
			"cancel_reason": sc.CancelReason,
			"submitted_at":  sc.SubmittedAt,
			"approved_by":   sc.ApprovedBy,
			"approved_at":   sc.ApprovedAt,
			"version":       sc.Version,
			"updated_at":    sc.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByBranch counts a branch's count sessions
func (r *GormStockCountRepository) CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockCountModel{}).
		Where("branch_id = ?", branchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainCounts(countModels []models.StockCountModel) []inventory.StockCount {
	scs := make([]inventory.StockCount, len(countModels))
	for i := range countModels {
		scs[i] = *countModels[i].ToDomain()
	}
	return scs
}

// Ensure GormStockCountRepository implements StockCountRepository
var _ inventory.StockCountRepository = (*GormStockCountRepository)(nil)
