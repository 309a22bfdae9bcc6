package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appinv "github.com/restoops/backend/internal/application/inventory"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/interfaces/http/dto"
)

// VarianceHandler exposes variance reports and root-cause tagging
type VarianceHandler struct {
	BaseHandler
	variance *appinv.VarianceService
}

// NewVarianceHandler creates a new variance handler
func NewVarianceHandler(variance *appinv.VarianceService, logger *zap.Logger) *VarianceHandler {
	return &VarianceHandler{
		BaseHandler: NewBaseHandler(logger),
		variance:    variance,
	}
}

// Report handles GET /variance/report
func (h *VarianceHandler) Report(c *gin.Context) {
	var q dto.VarianceReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err)
		return
	}

	start, err := time.Parse(time.RFC3339, q.Start)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "start must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, q.End)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "end must be an RFC 3339 timestamp")
		return
	}

	report, err := h.variance.Report(c.Request.Context(), appinv.VarianceReportRequest{
		BranchID: uuid.MustParse(q.BranchID),
		Start:    start,
		End:      end,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// UpsertTag handles PUT /variance/tags
func (h *VarianceHandler) UpsertTag(c *gin.Context) {
	var req dto.UpsertVarianceTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		h.Error(c, dto.ErrCodeUnauthorized, "authentication required")
		return
	}

	start, err := time.Parse(time.RFC3339, req.PeriodStart)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "period_start must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, req.PeriodEnd)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "period_end must be an RFC 3339 timestamp")
		return
	}

	resp, err := h.variance.UpsertTag(c.Request.Context(), appinv.UpsertVarianceTagRequest{
		ItemID:      uuid.MustParse(req.ItemID),
		BranchID:    uuid.MustParse(req.BranchID),
		PeriodStart: start,
		PeriodEnd:   end,
		Cause:       inventory.RootCause(req.Cause),
		Note:        req.Note,
		TaggedBy:    userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteTag handles DELETE /variance/tags/:id
func (h *VarianceHandler) DeleteTag(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.variance.DeleteTag(c.Request.Context(), uuid.MustParse(idReq.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
