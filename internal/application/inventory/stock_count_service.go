package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
)

// StockCountService drives the count workflow: open a draft with a frozen
// expected snapshot, record actuals, and walk the one-way state machine.
// Approval is the only code path in the system that writes
// STOCK_COUNT_ADJUSTMENT movements.
type StockCountService struct {
	txScope   TransactionScope
	countRepo inventory.StockCountRepository
	publisher shared.EventPublisher
	cache     OnHandCache
}

// StockCountServiceOption configures a StockCountService
type StockCountServiceOption func(*StockCountService)

// WithCountOnHandCache attaches the on-hand cache so approval can invalidate
// the branches it adjusted
func WithCountOnHandCache(cache OnHandCache) StockCountServiceOption {
	return func(s *StockCountService) {
		s.cache = cache
	}
}

// NewStockCountService creates a new StockCountService
func NewStockCountService(
	txScope TransactionScope,
	countRepo inventory.StockCountRepository,
	publisher shared.EventPublisher,
	opts ...StockCountServiceOption,
) *StockCountService {
	s := &StockCountService{
		txScope:   txScope,
		countRepo: countRepo,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a draft count covering every active item of the branch.
// The expected quantity of each line is the item's on-hand sum read inside
// the same transaction that persists the count, so the snapshot is
// consistent with the ledger at a single point in time.
func (s *StockCountService) Create(ctx context.Context, req CreateStockCountRequest) (*StockCountResponse, error) {
	var sc *inventory.StockCount

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err := repos.ItemRepo().FindActiveByBranch(ctx, req.BranchID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return shared.ErrNoActiveItems
		}

		snapshot := make([]inventory.CountLineSnapshot, 0, len(items))
		for i := range items {
			onHand, err := repos.MovementRepo().SumQuantity(ctx, items[i].ID, req.BranchID, nil)
			if err != nil {
				return err
			}
			snapshot = append(snapshot, inventory.CountLineSnapshot{
				ItemID:   items[i].ID,
				ItemName: items[i].Name,
				BaseUnit: items[i].BaseUnit,
				OnHand:   onHand,
			})
		}

		sc, err = inventory.NewStockCount(req.BranchID, req.CreatedBy, req.Notes, snapshot)
		if err != nil {
			return err
		}

		return repos.StockCountRepo().SaveWithLines(ctx, sc)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// Get retrieves a count with its lines
func (s *StockCountService) Get(ctx context.Context, id uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// GetLines retrieves just the lines of a count
func (s *StockCountService) GetLines(ctx context.Context, id uuid.UUID) ([]StockCountLineResponse, error) {
	sc, err := s.countRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines := make([]StockCountLineResponse, len(sc.Lines))
	for i := range sc.Lines {
		lines[i] = ToStockCountLineResponse(&sc.Lines[i])
	}
	return lines, nil
}

// List retrieves a branch's count sessions, optionally filtered by status
func (s *StockCountService) List(ctx context.Context, branchID uuid.UUID, status *inventory.CountStatus, filter shared.Filter) ([]StockCountResponse, int64, error) {
	var (
		scs []inventory.StockCount
		err error
	)
	if status != nil {
		scs, err = s.countRepo.FindByBranchAndStatus(ctx, branchID, *status, filter)
	} else {
		scs, err = s.countRepo.FindByBranch(ctx, branchID, filter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.countRepo.CountByBranch(ctx, branchID)
	if err != nil {
		return nil, 0, err
	}
	return ToStockCountResponses(scs), total, nil
}

// UpdateLine records an actual counted quantity on a draft count. The
// header write is conditional on the row still being DRAFT so a submit or
// cancel committed after our read cannot be silently reverted; losing the
// race rolls back the line write too.
func (s *StockCountService) UpdateLine(ctx context.Context, countID uuid.UUID, req UpdateCountLineRequest) (*StockCountResponse, error) {
	var sc *inventory.StockCount

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sc, err = repos.StockCountRepo().FindByID(ctx, countID)
		if err != nil {
			return err
		}
		if err := sc.RecordActual(req.LineID, req.Actual, req.Note); err != nil {
			return err
		}
		line := sc.FindLine(req.LineID)
		if err := repos.StockCountRepo().SaveLine(ctx, line); err != nil {
			return err
		}
		updated, err := repos.StockCountRepo().UpdateStatusIfCurrent(ctx, sc, inventory.CountStatusDraft)
		if err != nil {
			return err
		}
		if !updated {
			return shared.ErrCountNotEditable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// Submit moves a draft count to SUBMITTED. The conditional status update
// guards against a concurrent submit or cancel of the same count.
func (s *StockCountService) Submit(ctx context.Context, countID uuid.UUID) (*StockCountResponse, error) {
	var sc *inventory.StockCount

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sc, err = repos.StockCountRepo().FindByID(ctx, countID)
		if err != nil {
			return err
		}
		prev := sc.Status
		if err := sc.Submit(); err != nil {
			return err
		}
		updated, err := repos.StockCountRepo().UpdateStatusIfCurrent(ctx, sc, prev)
		if err != nil {
			return err
		}
		if !updated {
			return shared.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

// Approve reconciles a submitted count against the ledger. In one
// transaction it flips the status SUBMITTED -> APPROVED via a conditional
// update and appends one STOCK_COUNT_ADJUSTMENT movement per line whose
// variance exceeds the epsilon threshold. Of two racing approvals exactly
// one wins; the loser sees zero rows updated and rolls back without
// touching the ledger, so adjustments are written exactly once.
func (s *StockCountService) Approve(ctx context.Context, countID, approverID uuid.UUID) (*ApproveResult, error) {
	var (
		sc          *inventory.StockCount
		adjustments []*inventory.StockMovement
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sc, err = repos.StockCountRepo().FindByID(ctx, countID)
		if err != nil {
			return err
		}
		prev := sc.Status
		if err := sc.Approve(approverID); err != nil {
			return err
		}

		updated, err := repos.StockCountRepo().UpdateStatusIfCurrent(ctx, sc, prev)
		if err != nil {
			return err
		}
		if !updated {
			return shared.ErrInvalidTransition
		}

		adjustments = adjustments[:0]
		for _, line := range sc.LinesNeedingAdjustment() {
			adj, err := inventory.NewCountAdjustment(line.ItemID, sc.BranchID, line.Variance(), sc.ID, line.ID, approverID)
			if err != nil {
				return err
			}
			adjustments = append(adjustments, adj)
		}
		if len(adjustments) > 0 {
			return repos.MovementRepo().CreateBatch(ctx, adjustments)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		for _, adj := range adjustments {
			s.cache.Invalidate(ctx, adj.ItemID, adj.BranchID)
		}
	}
	s.publishEvents(ctx, sc)

	return &ApproveResult{
		StockCountID:       sc.ID,
		AdjustmentsCreated: len(adjustments),
		NetVariance:        sc.NetVariance(),
	}, nil
}

// Cancel moves a draft or submitted count to CANCELLED. No ledger effect.
func (s *StockCountService) Cancel(ctx context.Context, countID uuid.UUID, reason string) (*StockCountResponse, error) {
	var sc *inventory.StockCount

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sc, err = repos.StockCountRepo().FindByID(ctx, countID)
		if err != nil {
			return err
		}
		prev := sc.Status
		if err := sc.Cancel(reason); err != nil {
			return err
		}
		updated, err := repos.StockCountRepo().UpdateStatusIfCurrent(ctx, sc, prev)
		if err != nil {
			return err
		}
		if !updated {
			return shared.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	resp := ToStockCountResponse(sc, true)
	return &resp, nil
}

func (s *StockCountService) publishEvents(ctx context.Context, sc *inventory.StockCount) {
	if s.publisher == nil {
		return
	}
	for _, event := range sc.GetDomainEvents() {
		_ = s.publisher.Publish(ctx, event)
	}
	sc.ClearDomainEvents()
}
