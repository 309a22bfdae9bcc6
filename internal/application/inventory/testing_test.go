package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restoops/backend/internal/domain/inventory"
	"github.com/restoops/backend/internal/domain/shared"
)

// In-memory repository fakes backing the service tests. They honor the same
// contracts as the GORM implementations, including the conditional status
// update used as the transition concurrency guard.

type memItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]inventory.InventoryItem)}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memItemRepo) FindByBranch(_ context.Context, branchID uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.InventoryItem
	for _, item := range r.items {
		if item.BranchID == branchID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *memItemRepo) FindActiveByBranch(_ context.Context, branchID uuid.UUID) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.InventoryItem
	for _, item := range r.items {
		if item.BranchID == branchID && item.Active {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) CountByBranch(_ context.Context, branchID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []inventory.StockMovement
	failOn    inventory.MovementType // when set, Create/CreateBatch of this type fails
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Create(_ context.Context, m *inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && m.Type == r.failOn {
		return shared.NewDomainError("STORAGE_FAILURE", "simulated write failure")
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memMovementRepo) CreateBatch(ctx context.Context, ms []*inventory.StockMovement) error {
	for _, m := range ms {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].ID == id {
			m := r.movements[i]
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindByItem(_ context.Context, itemID, branchID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.ItemID == itemID && m.BranchID == branchID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *memMovementRepo) FindByRef(_ context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.RefType == refType && m.RefID != nil && *m.RefID == refID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *memMovementRepo) FindByBranchAndDateRange(_ context.Context, branchID uuid.UUID, start, end time.Time, _ shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.BranchID == branchID && !m.OccurredAt.Before(start) && !m.OccurredAt.After(end) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *memMovementRepo) SumQuantity(_ context.Context, itemID, branchID uuid.UUID, asOf *time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ItemID != itemID || m.BranchID != branchID {
			continue
		}
		if asOf != nil && m.OccurredAt.After(*asOf) {
			continue
		}
		sum = sum.Add(m.Quantity)
	}
	return sum, nil
}

func (r *memMovementRepo) SumQuantityByType(_ context.Context, branchID uuid.UUID, movementType inventory.MovementType, start, end time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.BranchID == branchID && m.Type == movementType &&
			!m.OccurredAt.Before(start) && !m.OccurredAt.After(end) {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (r *memMovementRepo) AggregateByItemAndType(_ context.Context, branchID uuid.UUID, start, end time.Time) ([]inventory.ItemTypeAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		item uuid.UUID
		typ  inventory.MovementType
	}
	sums := make(map[key]decimal.Decimal)
	var order []key
	for _, m := range r.movements {
		if m.BranchID != branchID || m.OccurredAt.Before(start) || m.OccurredAt.After(end) {
			continue
		}
		k := key{m.ItemID, m.Type}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(m.Quantity)
	}
	result := make([]inventory.ItemTypeAggregate, 0, len(order))
	for _, k := range order {
		result = append(result, inventory.ItemTypeAggregate{ItemID: k.item, Type: k.typ, Quantity: sums[k]})
	}
	return result, nil
}

func (r *memMovementRepo) byType(movementType inventory.MovementType) []inventory.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.Type == movementType {
			result = append(result, m)
		}
	}
	return result
}

type memCountRepo struct {
	mu     sync.Mutex
	counts map[uuid.UUID]inventory.StockCount
}

func newMemCountRepo() *memCountRepo {
	return &memCountRepo{counts: make(map[uuid.UUID]inventory.StockCount)}
}

func copyCount(sc inventory.StockCount) *inventory.StockCount {
	lines := make([]inventory.StockCountLine, len(sc.Lines))
	copy(lines, sc.Lines)
	sc.Lines = lines
	return &sc
}

func (r *memCountRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.counts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyCount(sc), nil
}

func (r *memCountRepo) FindByLineID(_ context.Context, lineID uuid.UUID) (*inventory.StockCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sc := range r.counts {
		for _, line := range sc.Lines {
			if line.ID == lineID {
				return copyCount(sc), nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCountRepo) FindByBranch(_ context.Context, branchID uuid.UUID, _ shared.Filter) ([]inventory.StockCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockCount
	for _, sc := range r.counts {
		if sc.BranchID == branchID {
			result = append(result, *copyCount(sc))
		}
	}
	return result, nil
}

func (r *memCountRepo) FindByBranchAndStatus(_ context.Context, branchID uuid.UUID, status inventory.CountStatus, _ shared.Filter) ([]inventory.StockCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockCount
	for _, sc := range r.counts {
		if sc.BranchID == branchID && sc.Status == status {
			result = append(result, *copyCount(sc))
		}
	}
	return result, nil
}

func (r *memCountRepo) FindApprovedInRange(_ context.Context, branchID uuid.UUID, start, end time.Time) ([]inventory.StockCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockCount
	for _, sc := range r.counts {
		if sc.BranchID != branchID || sc.Status != inventory.CountStatusApproved || sc.ApprovedAt == nil {
			continue
		}
		if sc.ApprovedAt.Before(start) || sc.ApprovedAt.After(end) {
			continue
		}
		result = append(result, *copyCount(sc))
	}
	return result, nil
}

func (r *memCountRepo) Save(_ context.Context, sc *inventory.StockCount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.counts[sc.ID]
	if !ok {
		return shared.ErrNotFound
	}
	lines := stored.Lines
	stored = *copyCount(*sc)
	stored.Lines = lines
	r.counts[sc.ID] = stored
	return nil
}

func (r *memCountRepo) SaveWithLines(_ context.Context, sc *inventory.StockCount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[sc.ID] = *copyCount(*sc)
	return nil
}

func (r *memCountRepo) SaveLine(_ context.Context, line *inventory.StockCountLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.counts[line.StockCountID]
	if !ok {
		return shared.ErrNotFound
	}
	for i := range sc.Lines {
		if sc.Lines[i].ID == line.ID {
			sc.Lines[i] = *line
			r.counts[sc.ID] = sc
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memCountRepo) UpdateStatusIfCurrent(_ context.Context, sc *inventory.StockCount, current inventory.CountStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.counts[sc.ID]
	if !ok || stored.Status != current {
		return false, nil
	}
	stored.Status = sc.Status
	stored.CancelReason = sc.CancelReason
	stored.SubmittedAt = sc.SubmittedAt
	stored.ApprovedBy = sc.ApprovedBy
	stored.ApprovedAt = sc.ApprovedAt
	stored.Version = sc.Version
	stored.UpdatedAt = sc.UpdatedAt
	r.counts[sc.ID] = stored
	return true, nil
}

func (r *memCountRepo) CountByBranch(_ context.Context, branchID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sc := range r.counts {
		if sc.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

// hookedCountRepo wraps a count repository and fires afterFind once, right
// after a FindByID returns. Tests use it to commit a competing transition
// between a service's read and its writes.
type hookedCountRepo struct {
	inventory.StockCountRepository
	afterFind func()
}

func (r *hookedCountRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	sc, err := r.StockCountRepository.FindByID(ctx, id)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return sc, err
}

type memTagRepo struct {
	mu   sync.Mutex
	tags map[uuid.UUID]inventory.VarianceTag
}

func newMemTagRepo() *memTagRepo {
	return &memTagRepo{tags: make(map[uuid.UUID]inventory.VarianceTag)}
}

func (r *memTagRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.VarianceTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.tags[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &tag, nil
}

func (r *memTagRepo) FindByObservation(_ context.Context, itemID, branchID uuid.UUID, periodStart, periodEnd time.Time) (*inventory.VarianceTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range r.tags {
		if tag.ItemID == itemID && tag.BranchID == branchID &&
			tag.PeriodStart.Equal(periodStart) && tag.PeriodEnd.Equal(periodEnd) {
			t := tag
			return &t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTagRepo) FindByBranchAndPeriod(_ context.Context, branchID uuid.UUID, start, end time.Time) ([]inventory.VarianceTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.VarianceTag
	for _, tag := range r.tags {
		if tag.BranchID == branchID && !tag.PeriodStart.After(end) && !tag.PeriodEnd.Before(start) {
			result = append(result, tag)
		}
	}
	return result, nil
}

func (r *memTagRepo) Save(_ context.Context, tag *inventory.VarianceTag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[tag.ID] = *tag
	return nil
}

func (r *memTagRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tags, id)
	return nil
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// fakeCache records cache traffic for assertions
type fakeCache struct {
	mu          sync.Mutex
	values      map[string]decimal.Decimal
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]decimal.Decimal)}
}

func cacheKey(itemID, branchID uuid.UUID) string {
	return itemID.String() + ":" + branchID.String()
}

func (c *fakeCache) Get(_ context.Context, itemID, branchID uuid.UUID) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[cacheKey(itemID, branchID)]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, itemID, branchID uuid.UUID, qty decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[cacheKey(itemID, branchID)] = qty
}

func (c *fakeCache) Invalidate(_ context.Context, itemID, branchID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(itemID, branchID)
	delete(c.values, key)
	c.invalidated = append(c.invalidated, key)
}
