package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinv "github.com/restoops/backend/internal/application/inventory"
	"github.com/restoops/backend/internal/infrastructure/auth"
	"github.com/restoops/backend/internal/infrastructure/cache"
	"github.com/restoops/backend/internal/infrastructure/config"
	"github.com/restoops/backend/internal/infrastructure/event"
	"github.com/restoops/backend/internal/infrastructure/logger"
	"github.com/restoops/backend/internal/infrastructure/persistence"
	"github.com/restoops/backend/internal/interfaces/http/handler"
	"github.com/restoops/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting RestoOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	stockCountRepo := persistence.NewGormStockCountRepository(db.DB)
	varianceTagRepo := persistence.NewGormVarianceTagRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with the audit trail subscribed to everything
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Optional Redis-backed on-hand cache
	var onHandCache appinv.OnHandCache
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, on-hand cache disabled", zap.Error(err))
		} else {
			onHandCache = cache.NewRedisOnHandCache(redisClient, cfg.Redis.OnHandTTL, log)
			log.Info("On-hand cache enabled", zap.Duration("ttl", cfg.Redis.OnHandTTL))
		}
		cancel()
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// Application services
	var ledgerOpts []appinv.LedgerServiceOption
	var countOpts []appinv.StockCountServiceOption
	if onHandCache != nil {
		ledgerOpts = append(ledgerOpts, appinv.WithOnHandCache(onHandCache))
		countOpts = append(countOpts, appinv.WithCountOnHandCache(onHandCache))
	}
	ledgerService := appinv.NewLedgerService(txScope, itemRepo, movementRepo, eventBus, ledgerOpts...)
	stockCountService := appinv.NewStockCountService(txScope, stockCountRepo, eventBus, countOpts...)
	varianceService := appinv.NewVarianceService(movementRepo, stockCountRepo, varianceTagRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers and router
	engine := router.New(cfg, jwtService, router.Handlers{
		System:     handler.NewSystemHandler(db, version, log),
		Inventory:  handler.NewInventoryHandler(ledgerService, log),
		StockCount: handler.NewStockCountHandler(stockCountService, log),
		Variance:   handler.NewVarianceHandler(varianceService, log),
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
