package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OnHandCache is an optional read-through cache for on-hand quantities.
// It is never authoritative: a miss or an unavailable backend falls through
// to the ledger aggregate, and every committed write invalidates the key.
type OnHandCache interface {
	Get(ctx context.Context, itemID, branchID uuid.UUID) (decimal.Decimal, bool)
	Set(ctx context.Context, itemID, branchID uuid.UUID, qty decimal.Decimal)
	Invalidate(ctx context.Context, itemID, branchID uuid.UUID)
}

// LedgerService provides the write and read surface of the inventory ledger:
// recording single movements, coordinating two-leg transfers, and deriving
// on-hand quantities. All mutations run inside one transaction scope.
type LedgerService struct {
	txScope   TransactionScope
	itemRepo  inventory.ItemRepository
	moveRepo  inventory.MovementRepository
	publisher shared.EventPublisher
	cache     OnHandCache
}

// LedgerServiceOption configures a LedgerService
type LedgerServiceOption func(*LedgerService)

// WithOnHandCache attaches an on-hand read cache
func WithOnHandCache(cache OnHandCache) LedgerServiceOption {
	return func(s *LedgerService) {
		s.cache = cache
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	itemRepo inventory.ItemRepository,
	moveRepo inventory.MovementRepository,
	publisher shared.EventPublisher,
	opts ...LedgerServiceOption,
) *LedgerService {
	s := &LedgerService{
		txScope:   txScope,
		itemRepo:  itemRepo,
		moveRepo:  moveRepo,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateItem registers a new inventory item for a branch
func (s *LedgerService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := inventory.NewInventoryItem(req.BranchID, req.Name, req.SKU, req.BaseUnit)
	if err != nil {
		return nil, err
	}
	if !req.MinLevel.IsZero() {
		if err := item.SetMinLevel(req.MinLevel); err != nil {
			return nil, err
		}
	}
	if !req.ReorderPoint.IsZero() {
		if err := item.SetReorderPoint(req.ReorderPoint); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	resp := ToItemResponse(item)
	return &resp, nil
}

// GetItem retrieves an item by ID
func (s *LedgerService) GetItem(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// ListItems retrieves a branch's items
func (s *LedgerService) ListItems(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]ItemResponse, int64, error) {
	items, err := s.itemRepo.FindByBranch(ctx, branchID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountByBranch(ctx, branchID)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// RecordMovement validates and appends a single ledger movement. The caller
// supplies an unsigned magnitude and a movement type; the sign is derived
// from the type. For movement types that decrease stock, the post-movement
// balance is checked inside the transaction and the append fails with
// InsufficientStock if it would go negative.
func (s *LedgerService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*MovementResponse, error) {
	movement, err := inventory.NewStockMovement(req.ItemID, req.BranchID, req.Type, req.Quantity, req.Note, req.RecordedBy)
	if err != nil {
		return nil, err
	}
	if req.UnitCost != nil {
		movement.WithUnitCost(*req.UnitCost)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.guardItem(ctx, repos, req.ItemID); err != nil {
			return err
		}
		if req.Type.RequiresStockCheck() {
			if err := s.guardStock(ctx, repos, req.ItemID, req.BranchID, req.Quantity); err != nil {
				return err
			}
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.afterLedgerWrite(ctx, movement)

	resp := ToMovementResponse(movement)
	return &resp, nil
}

// Transfer moves stock between two branches as a balanced pair of movements.
// Both legs share a transfer group ID and are written in one transaction:
// either both commit or neither does.
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if req.FromBranch == req.ToBranch {
		return nil, shared.ErrSameBranch
	}

	out, err := inventory.NewStockMovement(req.ItemID, req.FromBranch, inventory.MovementTypeTransferOut, req.Quantity, req.Note, req.RecordedBy)
	if err != nil {
		return nil, err
	}
	in, err := inventory.NewStockMovement(req.ItemID, req.ToBranch, inventory.MovementTypeTransferIn, req.Quantity, req.Note, req.RecordedBy)
	if err != nil {
		return nil, err
	}

	groupID := uuid.New()
	out.WithTransferRef(groupID)
	in.WithTransferRef(groupID)

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.guardItem(ctx, repos, req.ItemID); err != nil {
			return err
		}
		if err := s.guardStock(ctx, repos, req.ItemID, req.FromBranch, req.Quantity); err != nil {
			return err
		}
		return repos.MovementRepo().CreateBatch(ctx, []*inventory.StockMovement{out, in})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOnHand(ctx, req.ItemID, req.FromBranch)
	s.invalidateOnHand(ctx, req.ItemID, req.ToBranch)
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, inventory.NewStockTransferredEvent(groupID, req.ItemID, req.FromBranch, req.ToBranch, req.Quantity))
	}

	return &TransferResponse{
		GroupID: groupID,
		Out:     ToMovementResponse(out),
		In:      ToMovementResponse(in),
	}, nil
}

// OnHand derives the current stock level of an (item, branch) pair by
// summing its ledger movements. A nil asOf means now; historical queries
// bypass the cache.
func (s *LedgerService) OnHand(ctx context.Context, itemID, branchID uuid.UUID, asOf *time.Time) (*OnHandResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	if asOf == nil && s.cache != nil {
		if qty, ok := s.cache.Get(ctx, itemID, branchID); ok {
			return &OnHandResponse{ItemID: itemID, BranchID: branchID, OnHand: qty, AsOf: time.Now()}, nil
		}
	}

	qty, err := s.moveRepo.SumQuantity(ctx, itemID, branchID, asOf)
	if err != nil {
		return nil, err
	}

	if asOf == nil && s.cache != nil {
		s.cache.Set(ctx, itemID, branchID, qty)
	}

	at := time.Now()
	if asOf != nil {
		at = *asOf
	}
	return &OnHandResponse{ItemID: itemID, BranchID: branchID, OnHand: qty, AsOf: at}, nil
}

// ListMovements retrieves the ledger history of an (item, branch) pair
func (s *LedgerService) ListMovements(ctx context.Context, itemID, branchID uuid.UUID, filter shared.Filter) ([]MovementResponse, error) {
	ms, err := s.moveRepo.FindByItem(ctx, itemID, branchID, filter)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(ms), nil
}

// ListBranchMovements retrieves a branch's ledger history within a window
func (s *LedgerService) ListBranchMovements(ctx context.Context, branchID uuid.UUID, start, end time.Time, filter shared.Filter) ([]MovementResponse, error) {
	ms, err := s.moveRepo.FindByBranchAndDateRange(ctx, branchID, start, end, filter)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(ms), nil
}

// guardItem verifies the item exists and is active
func (s *LedgerService) guardItem(ctx context.Context, repos TransactionalRepositories, itemID uuid.UUID) error {
	item, err := repos.ItemRepo().FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.Active {
		return shared.NewDomainError("ITEM_INACTIVE", "Cannot record movements against an inactive item")
	}
	return nil
}

// guardStock fails with InsufficientStock if removing qty would drive the
// (item, branch) balance negative. Must run inside the write transaction so
// the balance it reads cannot be stale at commit time.
func (s *LedgerService) guardStock(ctx context.Context, repos TransactionalRepositories, itemID, branchID uuid.UUID, qty decimal.Decimal) error {
	onHand, err := repos.MovementRepo().SumQuantity(ctx, itemID, branchID, nil)
	if err != nil {
		return err
	}
	if onHand.LessThan(qty) {
		return shared.ErrInsufficientStock
	}
	return nil
}

func (s *LedgerService) afterLedgerWrite(ctx context.Context, m *inventory.StockMovement) {
	s.invalidateOnHand(ctx, m.ItemID, m.BranchID)
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, inventory.NewMovementRecordedEvent(m))
	}
}

func (s *LedgerService) invalidateOnHand(ctx context.Context, itemID, branchID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, itemID, branchID)
	}
}
