package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryItem(t *testing.T) {
	branchID := uuid.New()

	t.Run("creates active item with zero thresholds", func(t *testing.T) {
		item, err := NewInventoryItem(branchID, "Tomatoes", "VEG-001", "kg")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, branchID, item.BranchID)
		assert.Equal(t, "Tomatoes", item.Name)
		assert.Equal(t, "VEG-001", item.SKU)
		assert.Equal(t, "kg", item.BaseUnit)
		assert.True(t, item.Active)
		assert.True(t, item.MinLevel.IsZero())
		assert.True(t, item.ReorderPoint.IsZero())
	})

	t.Run("allows empty SKU", func(t *testing.T) {
		_, err := NewInventoryItem(branchID, "House Blend", "", "kg")

		require.NoError(t, err)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.Nil, "Tomatoes", "", "kg")
		require.Error(t, err)

		_, err = NewInventoryItem(branchID, "", "", "kg")
		require.Error(t, err)

		_, err = NewInventoryItem(branchID, "Tomatoes", "", "")
		require.Error(t, err)
	})
}

func TestInventoryItem_Thresholds(t *testing.T) {
	item, err := NewInventoryItem(uuid.New(), "Flour", "", "kg")
	require.NoError(t, err)

	require.NoError(t, item.SetMinLevel(decimal.NewFromInt(5)))
	require.NoError(t, item.SetReorderPoint(decimal.NewFromInt(10)))
	assert.True(t, item.MinLevel.Equal(decimal.NewFromInt(5)))
	assert.True(t, item.ReorderPoint.Equal(decimal.NewFromInt(10)))

	require.Error(t, item.SetMinLevel(decimal.NewFromInt(-1)))
	require.Error(t, item.SetReorderPoint(decimal.NewFromInt(-1)))
}

func TestInventoryItem_ActivateDeactivate(t *testing.T) {
	item, err := NewInventoryItem(uuid.New(), "Flour", "", "kg")
	require.NoError(t, err)
	initialVersion := item.Version

	item.Deactivate()
	assert.False(t, item.Active)
	assert.Equal(t, initialVersion+1, item.Version)

	// no-op when already inactive
	item.Deactivate()
	assert.Equal(t, initialVersion+1, item.Version)

	item.Activate()
	assert.True(t, item.Active)
}
