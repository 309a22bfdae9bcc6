package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// VarianceReportRequest asks for a branch's variance picture over a window
type VarianceReportRequest struct {
	BranchID uuid.UUID
	Start    time.Time
	End      time.Time
}

// VarianceRow is one item's variance picture within the reporting window.
// CountAdjustment is the net of reconciliation adjustments, Waste the net of
// recorded waste; both come straight from the ledger.
type VarianceRow struct {
	ItemID          uuid.UUID            `json:"item_id"`
	CountAdjustment decimal.Decimal      `json:"count_adjustment"`
	Waste           decimal.Decimal      `json:"waste"`
	Tag             *VarianceTagResponse `json:"tag,omitempty"`
}

// VarianceReport is the full report for a branch and window
type VarianceReport struct {
	BranchID           uuid.UUID       `json:"branch_id"`
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	ApprovedCounts     int             `json:"approved_counts"`
	NetCountAdjustment decimal.Decimal `json:"net_count_adjustment"`
	NetWaste           decimal.Decimal `json:"net_waste"`
	Rows               []VarianceRow   `json:"rows"`
}

// UpsertVarianceTagRequest creates or replaces the root-cause tag of an
// (item, branch, period) observation
type UpsertVarianceTagRequest struct {
	ItemID      uuid.UUID
	BranchID    uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Cause       inventory.RootCause
	Note        string
	TaggedBy    uuid.UUID
}

// VarianceTagResponse is the application-level view of a variance tag
type VarianceTagResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	BranchID    uuid.UUID `json:"branch_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Cause       string    `json:"cause"`
	Note        string    `json:"note,omitempty"`
	TaggedBy    uuid.UUID `json:"tagged_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToVarianceTagResponse converts a domain tag to its response form
func ToVarianceTagResponse(t *inventory.VarianceTag) VarianceTagResponse {
	return VarianceTagResponse{
		ID:          t.ID,
		ItemID:      t.ItemID,
		BranchID:    t.BranchID,
		PeriodStart: t.PeriodStart,
		PeriodEnd:   t.PeriodEnd,
		Cause:       t.Cause.String(),
		Note:        t.Note,
		TaggedBy:    t.TaggedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
