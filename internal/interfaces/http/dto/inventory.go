package dto

// CreateItemRequest registers an inventory item for a branch
type CreateItemRequest struct {
	BranchID     string `json:"branch_id" binding:"required,uuid"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	SKU          string `json:"sku" binding:"omitempty,max=50"`
	BaseUnit     string `json:"base_unit" binding:"required,min=1,max=20"`
	MinLevel     string `json:"min_level" binding:"omitempty"`
	ReorderPoint string `json:"reorder_point" binding:"omitempty"`
}

// RecordMovementRequest appends one movement to the ledger. Quantity is an
// unsigned magnitude; the server derives the stored sign from the type.
type RecordMovementRequest struct {
	ItemID   string  `json:"item_id" binding:"required,uuid"`
	BranchID string  `json:"branch_id" binding:"required,uuid"`
	Type     string  `json:"type" binding:"required"`
	Quantity string  `json:"quantity" binding:"required"`
	UnitCost *string `json:"unit_cost" binding:"omitempty"`
	Note     string  `json:"note" binding:"omitempty,max=500"`
}

// TransferRequest moves stock between two branches
type TransferRequest struct {
	ItemID     string `json:"item_id" binding:"required,uuid"`
	FromBranch string `json:"from_branch" binding:"required,uuid"`
	ToBranch   string `json:"to_branch" binding:"required,uuid"`
	Quantity   string `json:"quantity" binding:"required"`
	Note       string `json:"note" binding:"omitempty,max=500"`
}

// OnHandQuery asks for the derived stock level of an (item, branch) pair,
// optionally as of a point in time (RFC 3339)
type OnHandQuery struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	AsOf     string `form:"as_of" binding:"omitempty"`
}

// MovementListQuery filters the ledger history of an item
type MovementListQuery struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	ListRequest
}

// BranchMovementListQuery filters a branch's ledger history. Start and End
// are RFC 3339 timestamps; omitted bounds default to the full history.
type BranchMovementListQuery struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	Start    string `form:"start" binding:"omitempty"`
	End      string `form:"end" binding:"omitempty"`
	ListRequest
}

// ItemListQuery filters a branch's items
type ItemListQuery struct {
	BranchID string `form:"branch_id" binding:"required,uuid"`
	ListRequest
}
