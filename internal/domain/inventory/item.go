package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItem represents a stockable item at a specific branch.
// On-hand quantity is intentionally NOT a field on the item: it is always
// derived by summing the item's ledger movements, so the ledger is the single
// source of truth and the item record can never drift from it.
type InventoryItem struct {
	shared.BaseAggregateRoot
	BranchID     uuid.UUID
	Name         string
	SKU          string
	BaseUnit     string
	MinLevel     decimal.Decimal
	ReorderPoint decimal.Decimal
	Active       bool
}

// NewInventoryItem creates a new inventory item for a branch
func NewInventoryItem(branchID uuid.UUID, name, sku, baseUnit string) (*InventoryItem, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if baseUnit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Item base unit cannot be empty")
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
		Name:              name,
		SKU:               sku,
		BaseUnit:          baseUnit,
		MinLevel:          decimal.Zero,
		ReorderPoint:      decimal.Zero,
		Active:            true,
	}, nil
}

// SetMinLevel sets the minimum stock level used for low-stock alerts
func (i *InventoryItem) SetMinLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum level cannot be negative")
	}
	i.MinLevel = level
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetReorderPoint sets the reorder point threshold
func (i *InventoryItem) SetReorderPoint(point decimal.Decimal) error {
	if point.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder point cannot be negative")
	}
	i.ReorderPoint = point
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Deactivate marks the item inactive. Inactive items keep their ledger history
// but are excluded from new stock counts and reject new movements.
func (i *InventoryItem) Deactivate() {
	if !i.Active {
		return
	}
	i.Active = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Activate marks the item active again
func (i *InventoryItem) Activate() {
	if i.Active {
		return
	}
	i.Active = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
