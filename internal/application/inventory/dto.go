package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateItemRequest carries the fields needed to register an inventory item
type CreateItemRequest struct {
	BranchID     uuid.UUID
	Name         string
	SKU          string
	BaseUnit     string
	MinLevel     decimal.Decimal
	ReorderPoint decimal.Decimal
}

// ItemResponse is the application-level view of an inventory item
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku,omitempty"`
	BaseUnit     string          `json:"base_unit"`
	MinLevel     decimal.Decimal `json:"min_level"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToItemResponse converts a domain item to its response form
func ToItemResponse(i *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		BranchID:     i.BranchID,
		Name:         i.Name,
		SKU:          i.SKU,
		BaseUnit:     i.BaseUnit,
		MinLevel:     i.MinLevel,
		ReorderPoint: i.ReorderPoint,
		Active:       i.Active,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.InventoryItem) []ItemResponse {
	result := make([]ItemResponse, len(items))
	for i := range items {
		result[i] = ToItemResponse(&items[i])
	}
	return result
}

// RecordMovementRequest carries one ledger append. Quantity is an unsigned
// magnitude; the movement type determines the stored sign.
type RecordMovementRequest struct {
	ItemID     uuid.UUID
	BranchID   uuid.UUID
	Type       inventory.MovementType
	Quantity   decimal.Decimal
	UnitCost   *decimal.Decimal
	Note       string
	RecordedBy uuid.UUID
}

// TransferRequest carries a two-leg branch transfer
type TransferRequest struct {
	ItemID     uuid.UUID
	FromBranch uuid.UUID
	ToBranch   uuid.UUID
	Quantity   decimal.Decimal
	Note       string
	RecordedBy uuid.UUID
}

// MovementResponse is the application-level view of a ledger movement
type MovementResponse struct {
	ID         uuid.UUID        `json:"id"`
	ItemID     uuid.UUID        `json:"item_id"`
	BranchID   uuid.UUID        `json:"branch_id"`
	Type       string           `json:"type"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Note       string           `json:"note,omitempty"`
	RecordedBy uuid.UUID        `json:"recorded_by"`
	RefType    string           `json:"ref_type,omitempty"`
	RefID      *uuid.UUID       `json:"ref_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// ToMovementResponse converts a domain movement to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		BranchID:   m.BranchID,
		Type:       m.Type.String(),
		Quantity:   m.Quantity,
		UnitCost:   m.UnitCost,
		Note:       m.Note,
		RecordedBy: m.RecordedBy,
		RefType:    string(m.RefType),
		RefID:      m.RefID,
		OccurredAt: m.OccurredAt,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(ms []inventory.StockMovement) []MovementResponse {
	result := make([]MovementResponse, len(ms))
	for i := range ms {
		result[i] = ToMovementResponse(&ms[i])
	}
	return result
}

// TransferResponse holds both committed legs of a transfer
type TransferResponse struct {
	GroupID uuid.UUID        `json:"group_id"`
	Out     MovementResponse `json:"out"`
	In      MovementResponse `json:"in"`
}

// OnHandResponse is the derived stock level of an (item, branch) pair
type OnHandResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	BranchID uuid.UUID       `json:"branch_id"`
	OnHand   decimal.Decimal `json:"on_hand"`
	AsOf     time.Time       `json:"as_of"`
}
