package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/restoops/backend/internal/infrastructure/auth"
	"github.com/restoops/backend/internal/infrastructure/config"
	"github.com/restoops/backend/internal/infrastructure/logger"
	"github.com/restoops/backend/internal/interfaces/http/handler"
	"github.com/restoops/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers wired into the router
type Handlers struct {
	System     *handler.SystemHandler
	Inventory  *handler.InventoryHandler
	StockCount *handler.StockCountHandler
	Variance   *handler.VarianceHandler
}

// New builds the gin engine with middleware and all API routes
func New(cfg *config.Config, jwtService *auth.JWTService, h Handlers, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			SkipPaths:  []string{"/health", "/api/v1/health"},
		}),
	)

	engine.GET("/health", h.System.Health)

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.RequireBranchAccess("branch_id"))
	{
		v1.GET("/health", h.System.Health)

		inv := v1.Group("/inventory")
		{
			items := inv.Group("/items")
			{
				items.POST("", h.Inventory.CreateItem)
				items.GET("", h.Inventory.ListItems)
				items.GET("/:id", h.Inventory.GetItem)
				items.GET("/:id/on-hand", h.Inventory.OnHand)
				items.GET("/:id/movements", h.Inventory.ListMovements)
			}

			inv.POST("/movements", h.Inventory.RecordMovement)
			inv.GET("/movements", h.Inventory.ListBranchMovements)
			inv.POST("/transfers", h.Inventory.Transfer)
		}

		counts := v1.Group("/stock-counts")
		{
			counts.POST("", h.StockCount.Create)
			counts.GET("", h.StockCount.List)
			counts.GET("/:id", h.StockCount.Get)
			counts.GET("/:id/lines", h.StockCount.Lines)
			counts.PUT("/:id/lines/:line_id", h.StockCount.UpdateLine)
			counts.POST("/:id/submit", h.StockCount.Submit)
			counts.POST("/:id/approve", h.StockCount.Approve)
			counts.POST("/:id/cancel", h.StockCount.Cancel)
		}

		variance := v1.Group("/variance")
		{
			variance.GET("/report", h.Variance.Report)
			variance.PUT("/tags", h.Variance.UpsertTag)
			variance.DELETE("/tags/:id", h.Variance.DeleteTag)
		}
	}

	return engine
}
