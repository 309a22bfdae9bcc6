package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
)

type ledgerFixture struct {
	service  *LedgerService
	items    *memItemRepo
	moves    *memMovementRepo
	pub      *capturingPublisher
	cache    *fakeCache
	branchID uuid.UUID
	userID   uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	items := newMemItemRepo()
	moves := newMemMovementRepo()
	counts := newMemCountRepo()
	pub := &capturingPublisher{}
	cache := newFakeCache()
	scope := NewNoOpTransactionScope(items, moves, counts)
	return &ledgerFixture{
		service:  NewLedgerService(scope, items, moves, pub, WithOnHandCache(cache)),
		items:    items,
		moves:    moves,
		pub:      pub,
		cache:    cache,
		branchID: uuid.New(),
		userID:   uuid.New(),
	}
}

func (f *ledgerFixture) createItem(t *testing.T, name string) uuid.UUID {
	t.Helper()
	resp, err := f.service.CreateItem(context.Background(), CreateItemRequest{
		BranchID: f.branchID,
		Name:     name,
		BaseUnit: "kg",
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *ledgerFixture) record(t *testing.T, itemID uuid.UUID, mt inventory.MovementType, qty int64) *MovementResponse {
	t.Helper()
	resp, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ItemID:     itemID,
		BranchID:   f.branchID,
		Type:       mt,
		Quantity:   decimal.NewFromInt(qty),
		RecordedBy: f.userID,
	})
	require.NoError(t, err)
	return resp
}

func TestLedgerService_RecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("on-hand equals the sum of signed movements", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Tomatoes")

		f.record(t, itemID, inventory.MovementTypeInitialStock, 50)
		f.record(t, itemID, inventory.MovementTypePurchaseReceipt, 20)
		f.record(t, itemID, inventory.MovementTypeWaste, 5)

		onHand, err := f.service.OnHand(ctx, itemID, f.branchID, nil)
		require.NoError(t, err)
		assert.True(t, onHand.OnHand.Equal(decimal.NewFromInt(65)), "50 + 20 - 5")
	})

	t.Run("caller quantity is unsigned, stored sign follows the type", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Tomatoes")
		f.record(t, itemID, inventory.MovementTypeInitialStock, 10)

		resp := f.record(t, itemID, inventory.MovementTypeWaste, 3)

		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("rejects outbound movement exceeding on-hand", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Tomatoes")
		f.record(t, itemID, inventory.MovementTypeInitialStock, 10)

		_, err := f.service.RecordMovement(ctx, RecordMovementRequest{
			ItemID:     itemID,
			BranchID:   f.branchID,
			Type:       inventory.MovementTypeWaste,
			Quantity:   decimal.NewFromInt(11),
			RecordedBy: f.userID,
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		onHand, err := f.service.OnHand(ctx, itemID, f.branchID, nil)
		require.NoError(t, err)
		assert.True(t, onHand.OnHand.Equal(decimal.NewFromInt(10)), "failed write must leave the ledger untouched")
	})

	t.Run("allows draining stock to exactly zero", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Tomatoes")
		f.record(t, itemID, inventory.MovementTypeInitialStock, 10)

		f.record(t, itemID, inventory.MovementTypeWaste, 10)

		onHand, err := f.service.OnHand(ctx, itemID, f.branchID, nil)
		require.NoError(t, err)
		assert.True(t, onHand.OnHand.IsZero())
	})

	t.Run("inbound movements skip the stock guard", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Tomatoes")

		// no stock at all, receipt still succeeds
		f.record(t, itemID, inventory.MovementTypePurchaseReceipt, 5)
	})

	t.Run("rejects movements against unknown or inactive items", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.RecordMovement(ctx, RecordMovementRequest{
			ItemID:     uuid.New(),
			BranchID:   f.branchID,
			Type:       inventory.MovementTypePurchaseReceipt,
			Quantity:   decimal.NewFromInt(5),
			RecordedBy: f.userID,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		itemID := f.createItem(t, "Discontinued")
		item, err := f.items.FindByID(ctx, itemID)
		require.NoError(t, err)
		item.Deactivate()
		require.NoError(t, f.items.Save(ctx, item))

		_, err = f.service.RecordMovement(ctx, RecordMovementRequest{
			ItemID:     itemID,
			BranchID:   f.branchID,
			Type:       inventory.MovementTypePurchaseReceipt,
			Quantity:   decimal.NewFromInt(5),
			RecordedBy: f.userID,
		})
		require.Error(t, err)
	})

	t.Run("publishes event and invalidates cache after write", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Tomatoes")

		f.record(t, itemID, inventory.MovementTypeInitialStock, 10)

		assert.Contains(t, f.pub.eventTypes(), inventory.EventTypeMovementRecorded)
		assert.Contains(t, f.cache.invalidated, cacheKey(itemID, f.branchID))
	})
}

func TestLedgerService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("writes two balanced legs sharing a group reference", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Olive Oil")
		toBranch := uuid.New()
		f.record(t, itemID, inventory.MovementTypeInitialStock, 20)

		resp, err := f.service.Transfer(ctx, TransferRequest{
			ItemID:     itemID,
			FromBranch: f.branchID,
			ToBranch:   toBranch,
			Quantity:   decimal.NewFromInt(8),
			RecordedBy: f.userID,
		})
		require.NoError(t, err)

		assert.True(t, resp.Out.Quantity.Equal(decimal.NewFromInt(-8)))
		assert.True(t, resp.In.Quantity.Equal(decimal.NewFromInt(8)))
		require.NotNil(t, resp.Out.RefID)
		require.NotNil(t, resp.In.RefID)
		assert.Equal(t, resp.GroupID, *resp.Out.RefID)
		assert.Equal(t, resp.GroupID, *resp.In.RefID)

		legs, err := f.moves.FindByRef(ctx, inventory.ReferenceTypeTransfer, resp.GroupID)
		require.NoError(t, err)
		assert.Len(t, legs, 2)

		from, err := f.service.OnHand(ctx, itemID, f.branchID, nil)
		require.NoError(t, err)
		to, err := f.service.OnHand(ctx, itemID, toBranch, nil)
		require.NoError(t, err)
		assert.True(t, from.OnHand.Equal(decimal.NewFromInt(12)))
		assert.True(t, to.OnHand.Equal(decimal.NewFromInt(8)))
	})

	t.Run("rejects same-branch transfers", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Olive Oil")

		_, err := f.service.Transfer(ctx, TransferRequest{
			ItemID:     itemID,
			FromBranch: f.branchID,
			ToBranch:   f.branchID,
			Quantity:   decimal.NewFromInt(1),
			RecordedBy: f.userID,
		})

		assert.ErrorIs(t, err, shared.ErrSameBranch)
	})

	t.Run("rejects transfers exceeding source on-hand, writing neither leg", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Olive Oil")
		toBranch := uuid.New()
		f.record(t, itemID, inventory.MovementTypeInitialStock, 5)

		_, err := f.service.Transfer(ctx, TransferRequest{
			ItemID:     itemID,
			FromBranch: f.branchID,
			ToBranch:   toBranch,
			Quantity:   decimal.NewFromInt(6),
			RecordedBy: f.userID,
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		to, err := f.service.OnHand(ctx, itemID, toBranch, nil)
		require.NoError(t, err)
		assert.True(t, to.OnHand.IsZero(), "no half-transfer may be observable")
	})
}

func TestLedgerService_OnHand(t *testing.T) {
	ctx := context.Background()

	t.Run("historical query honors as-of cutoff and bypasses cache", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Flour")
		f.record(t, itemID, inventory.MovementTypeInitialStock, 30)

		cutoff := time.Now()
		time.Sleep(5 * time.Millisecond)
		f.record(t, itemID, inventory.MovementTypePurchaseReceipt, 10)

		// poison the cache to prove the historical path ignores it
		f.cache.Set(ctx, itemID, f.branchID, decimal.NewFromInt(999))

		hist, err := f.service.OnHand(ctx, itemID, f.branchID, &cutoff)
		require.NoError(t, err)
		assert.True(t, hist.OnHand.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, cutoff, hist.AsOf)
	})

	t.Run("current query populates and reuses the cache", func(t *testing.T) {
		f := newLedgerFixture(t)
		itemID := f.createItem(t, "Flour")
		f.record(t, itemID, inventory.MovementTypeInitialStock, 30)

		first, err := f.service.OnHand(ctx, itemID, f.branchID, nil)
		require.NoError(t, err)
		assert.True(t, first.OnHand.Equal(decimal.NewFromInt(30)))

		cached, ok := f.cache.Get(ctx, itemID, f.branchID)
		require.True(t, ok)
		assert.True(t, cached.Equal(decimal.NewFromInt(30)))
	})

	t.Run("unknown item fails", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.service.OnHand(ctx, uuid.New(), f.branchID, nil)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
