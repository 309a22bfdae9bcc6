package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinv "github.com/restoops/backend/internal/application/inventory"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/interfaces/http/dto"
)

// InventoryHandler exposes items, the movement ledger, transfers and
// on-hand queries.
type InventoryHandler struct {
	BaseHandler
	ledger *appinv.LedgerService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(ledger *appinv.LedgerService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: NewBaseHandler(logger),
		ledger:      ledger,
	}
}

// CreateItem handles POST /items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	minLevel, err := parseOptionalDecimal(req.MinLevel)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "min_level must be a decimal number")
		return
	}
	reorderPoint, err := parseOptionalDecimal(req.ReorderPoint)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "reorder_point must be a decimal number")
		return
	}

	resp, err := h.ledger.CreateItem(c.Request.Context(), appinv.CreateItemRequest{
		BranchID:     uuid.MustParse(req.BranchID),
		Name:         req.Name,
		SKU:          req.SKU,
		BaseUnit:     req.BaseUnit,
		MinLevel:     minLevel,
		ReorderPoint: reorderPoint,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetItem handles GET /items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.ledger.GetItem(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListItems handles GET /items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var q dto.ItemListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}
	filter, err := h.bindFilter(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	items, total, err := h.ledger.ListItems(c.Request.Context(), uuid.MustParse(q.BranchID), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// RecordMovement handles POST /movements
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		h.Error(c, dto.ErrCodeUnauthorized, "authentication required")
		return
	}

	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "quantity must be a decimal number")
		return
	}
	var unitCost *decimal.Decimal
	if req.UnitCost != nil && *req.UnitCost != "" {
		uc, err := decimal.NewFromString(*req.UnitCost)
		if err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "unit_cost must be a decimal number")
			return
		}
		unitCost = &uc
	}

	resp, err := h.ledger.RecordMovement(c.Request.Context(), appinv.RecordMovementRequest{
		ItemID:     uuid.MustParse(req.ItemID),
		BranchID:   uuid.MustParse(req.BranchID),
		Type:       inventory.MovementType(req.Type),
		Quantity:   qty,
		UnitCost:   unitCost,
		Note:       req.Note,
		RecordedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Transfer handles POST /transfers
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		h.Error(c, dto.ErrCodeUnauthorized, "authentication required")
		return
	}

	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "quantity must be a decimal number")
		return
	}

	resp, err := h.ledger.Transfer(c.Request.Context(), appinv.TransferRequest{
		ItemID:     uuid.MustParse(req.ItemID),
		FromBranch: uuid.MustParse(req.FromBranch),
		ToBranch:   uuid.MustParse(req.ToBranch),
		Quantity:   qty,
		Note:       req.Note,
		RecordedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// OnHand handles GET /items/:id/on-hand
func (h *InventoryHandler) OnHand(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}
	var q dto.OnHandQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}

	var asOf *time.Time
	if q.AsOf != "" {
		t, err := time.Parse(time.RFC3339, q.AsOf)
		if err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "as_of must be an RFC 3339 timestamp")
			return
		}
		asOf = &t
	}

	resp, err := h.ledger.OnHand(c.Request.Context(), uuid.MustParse(idReq.ID), uuid.MustParse(q.BranchID), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMovements handles GET /items/:id/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}
	var q dto.MovementListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}
	filter, err := h.bindFilter(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	ms, err := h.ledger.ListMovements(c.Request.Context(), uuid.MustParse(idReq.ID), uuid.MustParse(q.BranchID), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ms)
}

// ListBranchMovements handles GET /inventory/movements
func (h *InventoryHandler) ListBranchMovements(c *gin.Context) {
	var q dto.BranchMovementListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}
	filter, err := h.bindFilter(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	start := time.Time{}
	if q.Start != "" {
		if start, err = time.Parse(time.RFC3339, q.Start); err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "start must be an RFC 3339 timestamp")
			return
		}
	}
	end := time.Now()
	if q.End != "" {
		if end, err = time.Parse(time.RFC3339, q.End); err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "end must be an RFC 3339 timestamp")
			return
		}
	}

	ms, err := h.ledger.ListBranchMovements(c.Request.Context(), uuid.MustParse(q.BranchID), start, end, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ms)
}

// parseOptionalDecimal parses a decimal string, treating empty as zero
func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
