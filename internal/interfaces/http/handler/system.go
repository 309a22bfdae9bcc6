package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/restoops/backend/internal/infrastructure/persistence"
	"github.com/restoops/backend/internal/interfaces/http/dto"
)

// SystemHandler exposes liveness and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	version string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		db:          db,
		version:     version,
	}
}

// HealthStatus reports the service and its dependencies
type HealthStatus struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Time     time.Time         `json:"time"`
	Services map[string]string `json:"services"`
}

// Health handles GET /health. Returns 503 when the database is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:   "ok",
		Version:  h.version,
		Time:     time.Now().UTC(),
		Services: map[string]string{},
	}

	if err := h.db.Ping(); err != nil {
		status.Status = "degraded"
		status.Services["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(status))
		return
	}
	status.Services["database"] = "ok"

	h.Success(c, status)
}
