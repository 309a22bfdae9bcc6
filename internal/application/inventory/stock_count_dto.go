package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateStockCountRequest opens a count session for a branch
type CreateStockCountRequest struct {
	BranchID  uuid.UUID
	Notes     string
	CreatedBy uuid.UUID
}

// UpdateCountLineRequest records the actual counted quantity on one line
type UpdateCountLineRequest struct {
	LineID uuid.UUID
	Actual decimal.Decimal
	Note   string
}

// ApproveResult summarizes the ledger effect of an approved count
type ApproveResult struct {
	StockCountID       uuid.UUID       `json:"stock_count_id"`
	AdjustmentsCreated int             `json:"adjustments_created"`
	NetVariance        decimal.Decimal `json:"net_variance"`
}

// StockCountLineResponse is the application-level view of a count line
type StockCountLineResponse struct {
	ID       uuid.UUID       `json:"id"`
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	BaseUnit string          `json:"base_unit"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
	Counted  bool            `json:"counted"`
	Variance decimal.Decimal `json:"variance"`
	Note     string          `json:"note,omitempty"`
}

// StockCountResponse is the application-level view of a count session
type StockCountResponse struct {
	ID           uuid.UUID                `json:"id"`
	BranchID     uuid.UUID                `json:"branch_id"`
	Status       string                   `json:"status"`
	Notes        string                   `json:"notes,omitempty"`
	CancelReason string                   `json:"cancel_reason,omitempty"`
	CreatedBy    uuid.UUID                `json:"created_by"`
	SubmittedAt  *time.Time               `json:"submitted_at,omitempty"`
	ApprovedBy   *uuid.UUID               `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time               `json:"approved_at,omitempty"`
	NetVariance  decimal.Decimal          `json:"net_variance"`
	Lines        []StockCountLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ToStockCountLineResponse converts a domain line to its response form
func ToStockCountLineResponse(l *inventory.StockCountLine) StockCountLineResponse {
	return StockCountLineResponse{
		ID:       l.ID,
		ItemID:   l.ItemID,
		ItemName: l.ItemName,
		BaseUnit: l.BaseUnit,
		Expected: l.Expected,
		Actual:   l.Actual,
		Counted:  l.Counted,
		Variance: l.Variance(),
		Note:     l.Note,
	}
}

// ToStockCountResponse converts a domain count to its response form,
// lines included when withLines is true
func ToStockCountResponse(sc *inventory.StockCount, withLines bool) StockCountResponse {
	resp := StockCountResponse{
		ID:           sc.ID,
		BranchID:     sc.BranchID,
		Status:       sc.Status.String(),
		Notes:        sc.Notes,
		CancelReason: sc.CancelReason,
		CreatedBy:    sc.CreatedBy,
		SubmittedAt:  sc.SubmittedAt,
		ApprovedBy:   sc.ApprovedBy,
		ApprovedAt:   sc.ApprovedAt,
		NetVariance:  sc.NetVariance(),
		CreatedAt:    sc.CreatedAt,
		UpdatedAt:    sc.UpdatedAt,
	}
	if withLines {
		resp.Lines = make([]StockCountLineResponse, len(sc.Lines))
		for i := range sc.Lines {
			resp.Lines[i] = ToStockCountLineResponse(&sc.Lines[i])
		}
	}
	return resp
}

// ToStockCountResponses converts a slice of domain counts, headers only
func ToStockCountResponses(scs []inventory.StockCount) []StockCountResponse {
	result := make([]StockCountResponse, len(scs))
	for i := range scs {
		result[i] = ToStockCountResponse(&scs[i], false)
	}
	return result
}
