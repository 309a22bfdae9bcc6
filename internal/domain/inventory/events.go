package inventory

import (
	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the inventory domain
const (
	EventTypeMovementRecorded    = "inventory.movement.recorded"
	EventTypeStockTransferred    = "inventory.stock.transferred"
	EventTypeStockCountCreated   = "inventory.stock_count.created"
	EventTypeStockCountSubmitted = "inventory.stock_count.submitted"
	EventTypeStockCountApproved  = "inventory.stock_count.approved"
	EventTypeStockCountCancelled = "inventory.stock_count.cancelled"
)

// MovementRecordedEvent is published when a ledger movement is committed
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewMovementRecordedEvent creates a MovementRecordedEvent
func NewMovementRecordedEvent(m *StockMovement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementRecorded, "StockMovement", m.ID),
		ItemID:          m.ItemID,
		BranchID:        m.BranchID,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
	}
}

// StockTransferredEvent is published when both legs of a transfer commit
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	FromBranch uuid.UUID       `json:"from_branch"`
	ToBranch   uuid.UUID       `json:"to_branch"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a StockTransferredEvent keyed by the transfer group
func NewStockTransferredEvent(groupID, itemID, fromBranch, toBranch uuid.UUID, qty decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, "StockTransfer", groupID),
		ItemID:          itemID,
		FromBranch:      fromBranch,
		ToBranch:        toBranch,
		Quantity:        qty,
	}
}

// StockCountCreatedEvent is published when a count session is opened
type StockCountCreatedEvent struct {
	shared.BaseDomainEvent
	BranchID  uuid.UUID `json:"branch_id"`
	LineCount int       `json:"line_count"`
}

// NewStockCountCreatedEvent creates a StockCountCreatedEvent
func NewStockCountCreatedEvent(sc *StockCount) *StockCountCreatedEvent {
	return &StockCountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountCreated, "StockCount", sc.ID),
		BranchID:        sc.BranchID,
		LineCount:       len(sc.Lines),
	}
}

// StockCountSubmittedEvent is published when a count moves to SUBMITTED
type StockCountSubmittedEvent struct {
	shared.BaseDomainEvent
	BranchID uuid.UUID `json:"branch_id"`
}

// NewStockCountSubmittedEvent creates a StockCountSubmittedEvent
func NewStockCountSubmittedEvent(sc *StockCount) *StockCountSubmittedEvent {
	return &StockCountSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountSubmitted, "StockCount", sc.ID),
		BranchID:        sc.BranchID,
	}
}

// StockCountApprovedEvent is published after approval commits, adjustments included
type StockCountApprovedEvent struct {
	shared.BaseDomainEvent
	BranchID    uuid.UUID       `json:"branch_id"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	NetVariance decimal.Decimal `json:"net_variance"`
}

// NewStockCountApprovedEvent creates a StockCountApprovedEvent
func NewStockCountApprovedEvent(sc *StockCount) *StockCountApprovedEvent {
	var approver uuid.UUID
	if sc.ApprovedBy != nil {
		approver = *sc.ApprovedBy
	}
	return &StockCountApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountApproved, "StockCount", sc.ID),
		BranchID:        sc.BranchID,
		ApprovedBy:      approver,
		NetVariance:     sc.NetVariance(),
	}
}

// StockCountCancelledEvent is published when a count is cancelled
type StockCountCancelledEvent struct {
	shared.BaseDomainEvent
	BranchID uuid.UUID `json:"branch_id"`
	Reason   string    `json:"reason"`
}

// NewStockCountCancelledEvent creates a StockCountCancelledEvent
func NewStockCountCancelledEvent(sc *StockCount) *StockCountCancelledEvent {
	return &StockCountCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCountCancelled, "StockCount", sc.ID),
		BranchID:        sc.BranchID,
		Reason:          sc.CancelReason,
	}
}
