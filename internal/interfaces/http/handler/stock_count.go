package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinv "github.com/restoops/backend/internal/application/inventory"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/interfaces/http/dto"
)

// StockCountHandler exposes the count workflow: open, record actuals,
// submit, approve, cancel.
type StockCountHandler struct {
	BaseHandler
	counts *appinv.StockCountService
}

// NewStockCountHandler creates a new stock count handler
func NewStockCountHandler(counts *appinv.StockCountService, logger *zap.Logger) *StockCountHandler {
	return &StockCountHandler{
		BaseHandler: NewBaseHandler(logger),
		counts:      counts,
	}
}

// Create handles POST /stock-counts
func (h *StockCountHandler) Create(c *gin.Context) {
	var req dto.CreateStockCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		h.Error(c, dto.ErrCodeUnauthorized, "authentication required")
		return
	}

	resp, err := h.counts.Create(c.Request.Context(), appinv.CreateStockCountRequest{
		BranchID:  uuid.MustParse(req.BranchID),
		Notes:     req.Notes,
		CreatedBy: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /stock-counts/:id
func (h *StockCountHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.counts.Get(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /stock-counts
func (h *StockCountHandler) List(c *gin.Context) {
	var q dto.StockCountListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}
	filter, err := h.bindFilter(c)
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	var status *inventory.CountStatus
	if q.Status != "" {
		s := inventory.CountStatus(q.Status)
		status = &s
	}

	scs, total, err := h.counts.List(c.Request.Context(), uuid.MustParse(q.BranchID), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, scs, total, filter.Page, filter.PageSize)
}

// Lines handles GET /stock-counts/:id/lines
func (h *StockCountHandler) Lines(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}

	lines, err := h.counts.GetLines(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// UpdateLine handles PUT /stock-counts/:id/lines/:line_id
func (h *StockCountHandler) UpdateLine(c *gin.Context) {
	var uri dto.CountLineURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, err)
		return
	}
	var req dto.UpdateCountLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	actual, err := decimal.NewFromString(req.Actual)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "actual must be a decimal number")
		return
	}

	resp, err := h.counts.UpdateLine(c.Request.Context(), uuid.MustParse(uri.ID), appinv.UpdateCountLineRequest{
		LineID: uuid.MustParse(uri.LineID),
		Actual: actual,
		Note:   req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Submit handles POST /stock-counts/:id/submit
func (h *StockCountHandler) Submit(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.counts.Submit(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve handles POST /stock-counts/:id/approve
func (h *StockCountHandler) Approve(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		h.Error(c, dto.ErrCodeUnauthorized, "authentication required")
		return
	}

	result, err := h.counts.Approve(c.Request.Context(), uuid.MustParse(idReq.ID), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel handles POST /stock-counts/:id/cancel
func (h *StockCountHandler) Cancel(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}
	// The reason is optional, so a body-less cancel is accepted
	var req dto.CancelStockCountRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err)
			return
		}
	}

	resp, err := h.counts.Cancel(c.Request.Context(), uuid.MustParse(idReq.ID), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
