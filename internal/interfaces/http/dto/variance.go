package dto

// VarianceReportQuery asks for a branch's variance report over a window.
// Start and end are RFC 3339 timestamps.
type VarianceReportQuery struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	Start    string `form:"start" binding:"required"`
	End      string `form:"end" binding:"required"`
}

// UpsertVarianceTagRequest records or replaces the root-cause tag of an
// (item, branch, period) observation
type UpsertVarianceTagRequest struct {
	ItemID      string `json:"item_id" binding:"required,uuid"`
	BranchID    string `json:"branch_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	Cause       string `json:"cause" binding:"required"`
	Note        string `json:"note" binding:"omitempty,max=500"`
}
