package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/restoops/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// The stock_movements table is the inventory ledger: strictly append-only,
// so this repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a single movement
func (r *GormMovementRepository) Create(ctx context.Context, m *inventory.StockMovement) error {
	model := models.StockMovementModelFromDomain(m)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch appends multiple movements in one insert
func (r *GormMovementRepository) CreateBatch(ctx context.Context, ms []*inventory.StockMovement) error {
	if len(ms) == 0 {
		return nil
	}
	movementModels := make([]models.StockMovementModel, len(ms))
	for i, m := range ms {
		movementModels[i] = *models.StockMovementModelFromDomain(m)
	}
	return r.db.WithContext(ctx).Create(&movementModels).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	var model models.StockMovementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByItem finds movements for an (item, branch) pair, newest first
func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID, branchID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movementModels []models.StockMovementModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
			Where("item_id = ? AND branch_id = ?", itemID, branchID),
		filter, "occurred_at DESC",
	)

	if err := query.Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindByRef finds movements back-referencing a document, oldest first
func (r *GormMovementRepository) FindByRef(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.StockMovement, error) {
	var movementModels []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("ref_type = ? AND ref_id = ?", refType, refID).
		Order("occurred_at ASC").
		Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// FindByBranchAndDateRange finds a branch's movements within a window
func (r *GormMovementRepository) FindByBranchAndDateRange(ctx context.Context, branchID uuid.UUID, start, end time.Time, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movementModels []models.StockMovementModel
	query := applyFilter(
		r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
			Where("branch_id = ? AND occurred_at >= ? AND occurred_at <= ?", branchID, start, end),
		filter, "occurred_at DESC",
	)

	if err := query.Find(&movementModels).Error; err != nil {
		return nil, err
	}
	return toDomainMovements(movementModels), nil
}

// SumQuantity returns the signed movement sum for an (item, branch) pair up
// to asOf. A nil asOf means the full history. The result is the pair's
// on-hand quantity.
func (r *GormMovementRepository) SumQuantity(ctx context.Context, itemID, branchID uuid.UUID, asOf *time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("item_id = ? AND branch_id = ?", itemID, branchID)
	if asOf != nil {
		query = query.Where("occurred_at <= ?", *asOf)
	}

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumQuantityByType sums a branch's movements of one type within a window
func (r *GormMovementRepository) SumQuantityByType(ctx context.Context, branchID uuid.UUID, movementType inventory.MovementType, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("branch_id = ? AND type = ? AND occurred_at >= ? AND occurred_at <= ?",
			branchID, movementType, start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// AggregateByItemAndType groups a branch's movements within a window by
// (item, movement type) and sums the signed quantities
func (r *GormMovementRepository) AggregateByItemAndType(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]inventory.ItemTypeAggregate, error) {
	var rows []struct {
		ItemID   uuid.UUID
		Type     inventory.MovementType
		Quantity decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Select("item_id, type, COALESCE(SUM(quantity), 0) as quantity").
		Where("branch_id = ? AND occurred_at >= ? AND occurred_at <= ?", branchID, start, end).
		Group("item_id, type").
		Order("item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	aggregates := make([]inventory.ItemTypeAggregate, len(rows))
	for i, row := range rows {
		aggregates[i] = inventory.ItemTypeAggregate{
			ItemID:   row.ItemID,
			Type:     row.Type,
			Quantity: row.Quantity,
		}
	}
	return aggregates, nil
}

func toDomainMovements(movementModels []models.StockMovementModel) []inventory.StockMovement {
	ms := make([]inventory.StockMovement, len(movementModels))
	for i := range movementModels {
		ms[i] = *movementModels[i].ToDomain()
	}
	return ms
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
