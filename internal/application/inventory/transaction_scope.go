package inventory

import (
	"context"

	"github.com/restoops/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Every mutating operation in this package runs inside a
// scope so that partial effects are never observable: a failed transfer
// leaves neither leg, a failed approval leaves the count SUBMITTED and the
// ledger untouched.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() inventory.ItemRepository
	// MovementRepo returns the ledger repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
	// StockCountRepo returns the stock count repository scoped to the current transaction
	StockCountRepo() inventory.StockCountRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests that supply in-memory repositories.
type NoOpTransactionScope struct {
	itemRepo       inventory.ItemRepository
	movementRepo   inventory.MovementRepository
	stockCountRepo inventory.StockCountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.ItemRepository,
	movementRepo inventory.MovementRepository,
	stockCountRepo inventory.StockCountRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:       itemRepo,
		movementRepo:   movementRepo,
		stockCountRepo: stockCountRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository {
	return s.itemRepo
}

// MovementRepo returns the ledger repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// StockCountRepo returns the stock count repository.
func (s *NoOpTransactionScope) StockCountRepo() inventory.StockCountRepository {
	return s.stockCountRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
