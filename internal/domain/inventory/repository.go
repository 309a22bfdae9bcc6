package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemRepository defines the interface for inventory item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByBranch finds items belonging to a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindActiveByBranch finds the active items of a branch, unpaginated.
	// Used to seed stock count lines: a count must cover every active item.
	FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]InventoryItem, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *InventoryItem) error

	// CountByBranch counts items in a branch
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
}

// MovementRepository defines the interface for ledger movement persistence.
// The ledger is append-only: there is deliberately no update or delete.
type MovementRepository interface {
	// Create appends a single movement
	Create(ctx context.Context, m *StockMovement) error

	// CreateBatch appends multiple movements
	CreateBatch(ctx context.Context, ms []*StockMovement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByItem finds movements for an (item, branch) pair, newest first
	FindByItem(ctx context.Context, itemID, branchID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByRef finds movements back-referencing a document (count or transfer group)
	FindByRef(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]StockMovement, error)

	// FindByBranchAndDateRange finds a branch's movements within a window
	FindByBranchAndDateRange(ctx context.Context, branchID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockMovement, error)

	// SumQuantity returns the signed sum of movements for an (item, branch)
	// pair up to asOf. A nil asOf means now. This IS the item's on-hand
	// quantity; it must be evaluated under the caller's transaction so reads
	// never observe a partially committed write.
	SumQuantity(ctx context.Context, itemID, branchID uuid.UUID, asOf *time.Time) (decimal.Decimal, error)

	// SumQuantityByType sums a branch's movements of one type within a window
	SumQuantityByType(ctx context.Context, branchID uuid.UUID, movementType MovementType, start, end time.Time) (decimal.Decimal, error)

	// AggregateByItemAndType groups a branch's movements within a window by
	// (item, movement type) and sums the signed quantities. Feeds variance
	// analytics; never used on a write path.
	AggregateByItemAndType(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]ItemTypeAggregate, error)
}

// ItemTypeAggregate is one row of the per-item movement aggregation
type ItemTypeAggregate struct {
	ItemID   uuid.UUID
	Type     MovementType
	Quantity decimal.Decimal
}

// StockCountRepository defines the interface for stock count persistence
type StockCountRepository interface {
	// FindByID finds a count with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*StockCount, error)

	// FindByLineID finds the count owning a given line, with all lines loaded
	FindByLineID(ctx context.Context, lineID uuid.UUID) (*StockCount, error)

	// FindByBranch finds counts for a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]StockCount, error)

	// FindByBranchAndStatus finds a branch's counts in a given status
	FindByBranchAndStatus(ctx context.Context, branchID uuid.UUID, status CountStatus, filter shared.Filter) ([]StockCount, error)

	// FindApprovedInRange finds approved counts for a branch within a window
	FindApprovedInRange(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]StockCount, error)

	// Save persists the count header without touching lines
	Save(ctx context.Context, sc *StockCount) error

	// SaveWithLines persists the count and all of its lines
	SaveWithLines(ctx context.Context, sc *StockCount) error

	// SaveLine persists a single line
	SaveLine(ctx context.Context, line *StockCountLine) error

	// UpdateStatusIfCurrent persists the count's workflow fields (status,
	// timestamps, approver, cancel reason, version) with a conditional write:
	// UPDATE ... WHERE id = ? AND status = current. It reports whether a row
	// was updated. This is the concurrency guard for transitions: of two
	// racing approvals, exactly one observes true.
	UpdateStatusIfCurrent(ctx context.Context, sc *StockCount, current CountStatus) (bool, error)

	// CountByBranch counts a branch's count sessions
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
}

// VarianceTagRepository defines the interface for variance tag persistence
type VarianceTagRepository interface {
	// FindByID finds a tag by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*VarianceTag, error)

	// FindByObservation finds the tag for an (item, branch, period) observation
	FindByObservation(ctx context.Context, itemID, branchID uuid.UUID, periodStart, periodEnd time.Time) (*VarianceTag, error)

	// FindByBranchAndPeriod finds a branch's tags overlapping a window
	FindByBranchAndPeriod(ctx context.Context, branchID uuid.UUID, start, end time.Time) ([]VarianceTag, error)

	// Save creates or updates a tag
	Save(ctx context.Context, tag *VarianceTag) error

	// Delete removes a tag
	Delete(ctx context.Context, id uuid.UUID) error
}
