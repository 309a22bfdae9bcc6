package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appinv "github.com/restoops/backend/internal/application/inventory"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/infrastructure/event"
	"github.com/restoops/backend/internal/infrastructure/persistence"
	"github.com/restoops/backend/internal/infrastructure/persistence/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countHandlerFixture runs the count workflow end to end: gin router,
// handlers, services and GORM repositories over an in-memory database.
type countHandlerFixture struct {
	router   *gin.Engine
	counts   *appinv.StockCountService
	ledger   *appinv.LedgerService
	branchID uuid.UUID
	userID   uuid.UUID
}

func newCountHandlerFixture(t *testing.T) *countHandlerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.InventoryItemModel{},
		&models.StockMovementModel{},
		&models.StockCountModel{},
		&models.StockCountLineModel{},
	))

	items := persistence.NewGormItemRepository(db)
	moves := persistence.NewGormMovementRepository(db)
	countRepo := persistence.NewGormStockCountRepository(db)
	scope := persistence.NewGormTransactionScope(db)
	bus := event.NewInMemoryEventBus(zap.NewNop())

	counts := appinv.NewStockCountService(scope, countRepo, bus)
	ledger := appinv.NewLedgerService(scope, items, moves, bus)

	h := NewStockCountHandler(counts, zap.NewNop())
	router := gin.New()
	router.POST("/stock-counts/:id/cancel", h.Cancel)

	return &countHandlerFixture{
		router:   router,
		counts:   counts,
		ledger:   ledger,
		branchID: uuid.New(),
		userID:   uuid.New(),
	}
}

// seedDraftCount creates an item with stock and opens a draft count over it
func (f *countHandlerFixture) seedDraftCount(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	item, err := f.ledger.CreateItem(ctx, appinv.CreateItemRequest{
		BranchID: f.branchID,
		Name:     "Tomatoes",
		BaseUnit: "kg",
	})
	require.NoError(t, err)
	_, err = f.ledger.RecordMovement(ctx, appinv.RecordMovementRequest{
		ItemID:     item.ID,
		BranchID:   f.branchID,
		Type:       inventory.MovementTypeInitialStock,
		Quantity:   decimal.NewFromInt(50),
		RecordedBy: f.userID,
	})
	require.NoError(t, err)

	created, err := f.counts.Create(ctx, appinv.CreateStockCountRequest{
		BranchID:  f.branchID,
		CreatedBy: f.userID,
	})
	require.NoError(t, err)
	return created.ID
}

func (f *countHandlerFixture) cancel(countID uuid.UUID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stock-counts/"+countID.String()+"/cancel", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestStockCountHandler_Cancel(t *testing.T) {
	type envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Status       string `json:"status"`
			CancelReason string `json:"cancel_reason"`
		} `json:"data"`
	}

	t.Run("body-less request cancels the count", func(t *testing.T) {
		f := newCountHandlerFixture(t)
		countID := f.seedDraftCount(t)

		rec := f.cancel(countID, "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, inventory.CountStatusCancelled.String(), resp.Data.Status)
	})

	t.Run("reason in the body is recorded", func(t *testing.T) {
		f := newCountHandlerFixture(t)
		countID := f.seedDraftCount(t)

		rec := f.cancel(countID, `{"reason":"recount scheduled"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "recount scheduled", resp.Data.CancelReason)
	})

	t.Run("malformed body is still rejected", func(t *testing.T) {
		f := newCountHandlerFixture(t)
		countID := f.seedDraftCount(t)

		rec := f.cancel(countID, `{"reason":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
