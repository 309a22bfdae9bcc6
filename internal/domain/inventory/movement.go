package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType represents the type of a ledger movement
type MovementType string

const (
	// MovementTypePurchaseReceipt records goods received from a supplier
	MovementTypePurchaseReceipt MovementType = "PURCHASE_RECEIPT"
	// MovementTypeAdjustmentIn records a manual positive correction
	MovementTypeAdjustmentIn MovementType = "ADJUSTMENT_IN"
	// MovementTypeAdjustmentOut records a manual negative correction
	MovementTypeAdjustmentOut MovementType = "ADJUSTMENT_OUT"
	// MovementTypeWaste records spoiled or discarded stock
	MovementTypeWaste MovementType = "WASTE"
	// MovementTypeTransferOut records the debit leg of a branch transfer
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
	// MovementTypeTransferIn records the credit leg of a branch transfer
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeInitialStock records the opening balance of an item
	MovementTypeInitialStock MovementType = "INITIAL_STOCK"
	// MovementTypeCountAdjustment records a reconciliation delta from an
	// approved stock count. Only the reconciliation engine produces these.
	MovementTypeCountAdjustment MovementType = "STOCK_COUNT_ADJUSTMENT"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchaseReceipt,
		MovementTypeAdjustmentIn,
		MovementTypeAdjustmentOut,
		MovementTypeWaste,
		MovementTypeTransferOut,
		MovementTypeTransferIn,
		MovementTypeInitialStock,
		MovementTypeCountAdjustment:
		return true
	}
	return false
}

// IsInbound returns true if this movement type increases on-hand stock
func (t MovementType) IsInbound() bool {
	switch t {
	case MovementTypePurchaseReceipt,
		MovementTypeAdjustmentIn,
		MovementTypeTransferIn,
		MovementTypeInitialStock:
		return true
	}
	return false
}

// IsOutbound returns true if this movement type decreases on-hand stock
func (t MovementType) IsOutbound() bool {
	switch t {
	case MovementTypeAdjustmentOut,
		MovementTypeWaste,
		MovementTypeTransferOut:
		return true
	}
	return false
}

// RequiresStockCheck returns true if appending a movement of this type must
// not drive on-hand below zero. Count adjustments are exempt: a shortage
// finding is a correction to physical reality, not a withdrawal.
func (t MovementType) RequiresStockCheck() bool {
	return t.IsOutbound()
}

// ReferenceType identifies the document a movement back-references
type ReferenceType string

const (
	// ReferenceTypeStockCount links a movement to the stock count that produced it
	ReferenceTypeStockCount ReferenceType = "STOCK_COUNT"
	// ReferenceTypeTransfer links the two legs of a branch transfer
	ReferenceTypeTransfer ReferenceType = "TRANSFER"
)

// StockMovement is one immutable, signed quantity entry in the inventory
// ledger. Movements are append-only: corrections are made with new movements,
// never by updating or deleting existing ones. The sum of all movements for an
// (item, branch) pair is that item's on-hand quantity.
type StockMovement struct {
	shared.BaseEntity
	ItemID     uuid.UUID
	BranchID   uuid.UUID
	Type       MovementType
	Quantity   decimal.Decimal // signed, in the item's base unit
	UnitCost   *decimal.Decimal
	Note       string
	RecordedBy uuid.UUID
	RefType    ReferenceType // optional back-reference
	RefID      *uuid.UUID
	RefLineID  *uuid.UUID
	OccurredAt time.Time
}

// NewStockMovement creates a ledger movement from an unsigned magnitude and a
// movement type. The sign of the stored quantity is derived from the type:
// inbound types are stored positive, outbound types negative. Count
// adjustments carry their own sign and must use NewCountAdjustment.
func NewStockMovement(itemID, branchID uuid.UUID, movementType MovementType, qty decimal.Decimal, note string, recordedBy uuid.UUID) (*StockMovement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if movementType == MovementTypeCountAdjustment {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Count adjustments are created by count reconciliation only")
	}
	if qty.IsZero() || qty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive magnitude")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECORDER", "Recorder ID cannot be empty")
	}

	signed := qty
	if movementType.IsOutbound() {
		signed = qty.Neg()
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		BranchID:   branchID,
		Type:       movementType,
		Quantity:   signed,
		Note:       note,
		RecordedBy: recordedBy,
		OccurredAt: time.Now(),
	}, nil
}

// NewCountAdjustment creates a STOCK_COUNT_ADJUSTMENT movement carrying the
// signed variance of an approved count line: positive for overage, negative
// for shortage. The back-reference to the count and line is mandatory so every
// adjustment is traceable to the count that produced it.
func NewCountAdjustment(itemID, branchID uuid.UUID, variance decimal.Decimal, countID, lineID, recordedBy uuid.UUID) (*StockMovement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if variance.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Count adjustment variance cannot be zero")
	}
	if countID == uuid.Nil || lineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Count adjustment requires a count and line reference")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECORDER", "Recorder ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		BranchID:   branchID,
		Type:       MovementTypeCountAdjustment,
		Quantity:   variance,
		RecordedBy: recordedBy,
		RefType:    ReferenceTypeStockCount,
		RefID:      &countID,
		RefLineID:  &lineID,
		OccurredAt: time.Now(),
	}, nil
}

// WithUnitCost attaches the per-unit cost at the time of the movement
func (m *StockMovement) WithUnitCost(cost decimal.Decimal) *StockMovement {
	m.UnitCost = &cost
	return m
}

// WithTransferRef links this movement to a transfer group shared by both legs
func (m *StockMovement) WithTransferRef(groupID uuid.UUID) *StockMovement {
	m.RefType = ReferenceTypeTransfer
	m.RefID = &groupID
	return m
}

// Magnitude returns the absolute quantity moved
func (m *StockMovement) Magnitude() decimal.Decimal {
	return m.Quantity.Abs()
}
