package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/restoops/backend/internal/infrastructure/persistence/models"
)

func setupItemTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.InventoryItemModel{})
	require.NoError(t, err)

	return db
}

func mustNewItem(t *testing.T, branchID uuid.UUID, name, sku string) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(branchID, name, sku, "kg")
	require.NoError(t, err)
	return item
}

func TestGormItemRepository_SaveAndFind(t *testing.T) {
	db := setupItemTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()

	t.Run("saves and reloads an item", func(t *testing.T) {
		branchID := uuid.New()
		item := mustNewItem(t, branchID, "Tomatoes", "TOM-01")
		require.NoError(t, item.SetMinLevel(decimal.NewFromInt(5)))
		require.NoError(t, item.SetReorderPoint(decimal.NewFromInt(10)))

		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, "Tomatoes", found.Name)
		assert.Equal(t, "TOM-01", found.SKU)
		assert.Equal(t, "kg", found.BaseUnit)
		assert.True(t, found.MinLevel.Equal(decimal.NewFromInt(5)))
		assert.True(t, found.ReorderPoint.Equal(decimal.NewFromInt(10)))
		assert.True(t, found.Active)
	})

	t.Run("save updates in place", func(t *testing.T) {
		item := mustNewItem(t, uuid.New(), "Olive Oil", "")
		require.NoError(t, repo.Save(ctx, item))

		item.Deactivate()
		require.NoError(t, repo.Save(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepository_FindByBranch(t *testing.T) {
	db := setupItemTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()
	branchID := uuid.New()

	require.NoError(t, repo.Save(ctx, mustNewItem(t, branchID, "Basmati Rice", "RICE-01")))
	require.NoError(t, repo.Save(ctx, mustNewItem(t, branchID, "Arborio Rice", "RICE-02")))
	require.NoError(t, repo.Save(ctx, mustNewItem(t, branchID, "Olive Oil", "OIL-01")))
	require.NoError(t, repo.Save(ctx, mustNewItem(t, uuid.New(), "Other Branch Item", "")))

	t.Run("returns only the branch's items, name ascending", func(t *testing.T) {
		items, err := repo.FindByBranch(ctx, branchID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Arborio Rice", items[0].Name)
		assert.Equal(t, "Basmati Rice", items[1].Name)
		assert.Equal(t, "Olive Oil", items[2].Name)
	})

	t.Run("search matches name and sku case-insensitively", func(t *testing.T) {
		byName, err := repo.FindByBranch(ctx, branchID, shared.Filter{Search: "rice"})
		require.NoError(t, err)
		assert.Len(t, byName, 2)

		bySKU, err := repo.FindByBranch(ctx, branchID, shared.Filter{Search: "oil-01"})
		require.NoError(t, err)
		require.Len(t, bySKU, 1)
		assert.Equal(t, "Olive Oil", bySKU[0].Name)
	})

	t.Run("pagination slices the ordered result", func(t *testing.T) {
		page, err := repo.FindByBranch(ctx, branchID, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Olive Oil", page[0].Name)
	})
}

func TestGormItemRepository_FindActiveByBranch(t *testing.T) {
	db := setupItemTestDB(t)
	repo := NewGormItemRepository(db)
	ctx := context.Background()
	branchID := uuid.New()

	active := mustNewItem(t, branchID, "Flour", "")
	require.NoError(t, repo.Save(ctx, active))

	retired := mustNewItem(t, branchID, "Saffron", "")
	retired.Deactivate()
	require.NoError(t, repo.Save(ctx, retired))

	items, err := repo.FindActiveByBranch(ctx, branchID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Flour", items[0].Name)

	count, err := repo.CountByBranch(ctx, branchID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "count includes inactive items")
}
