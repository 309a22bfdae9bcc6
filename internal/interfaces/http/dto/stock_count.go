package dto

// CreateStockCountRequest opens a count session covering a branch's active items
type CreateStockCountRequest struct {
	BranchID string `json:"branch_id" binding:"required,uuid"`
	Notes    string `json:"notes" binding:"omitempty,max=500"`
}

// CountLineURI addresses one line of a count session
type CountLineURI struct {
	ID     string `uri:"id" binding:"required,uuid"`
	LineID string `uri:"line_id" binding:"required,uuid"`
}

// UpdateCountLineRequest records the actual counted quantity on one line
type UpdateCountLineRequest struct {
	Actual string `json:"actual" binding:"required"`
	Note   string `json:"note" binding:"omitempty,max=500"`
}

// CancelStockCountRequest abandons a count session
type CancelStockCountRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// StockCountListQuery filters a branch's count sessions
type StockCountListQuery struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED CANCELLED"`
	ListRequest
}
