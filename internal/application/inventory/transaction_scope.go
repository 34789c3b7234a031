package inventory

import (
	"context"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/numbering"
	"github.com/ims/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work against a single database
// transaction. Every stock mutation (sale, receipt, adjustment) executes
// inside a scope so the product update, its ledger entries and the document
// record commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to
// the current transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the transaction
	ProductRepo() catalog.ProductRepository
	// EntryRepo returns the stock ledger repository scoped to the transaction
	EntryRepo() ledger.StockEntryRepository
	// SaleRepo returns the sale repository scoped to the transaction
	SaleRepo() trade.SaleRepository
	// OrderRepo returns the purchase order repository scoped to the transaction
	OrderRepo() trade.PurchaseOrderRepository
	// SequenceRepo returns the document sequence repository scoped to the transaction
	SequenceRepo() numbering.SequenceRepository
}

// NoOpTransactionScope runs units of work without a real transaction.
// Used in unit tests where the repositories are mocks.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	entryRepo    ledger.StockEntryRepository
	saleRepo     trade.SaleRepository
	orderRepo    trade.PurchaseOrderRepository
	sequenceRepo numbering.SequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	entryRepo ledger.StockEntryRepository,
	saleRepo trade.SaleRepository,
	orderRepo trade.PurchaseOrderRepository,
	sequenceRepo numbering.SequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		entryRepo:    entryRepo,
		saleRepo:     saleRepo,
		orderRepo:    orderRepo,
		sequenceRepo: sequenceRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// EntryRepo returns the stock ledger repository
func (s *NoOpTransactionScope) EntryRepo() ledger.StockEntryRepository {
	return s.entryRepo
}

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

// OrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) OrderRepo() trade.PurchaseOrderRepository {
	return s.orderRepo
}

// SequenceRepo returns the document sequence repository
func (s *NoOpTransactionScope) SequenceRepo() numbering.SequenceRepository {
	return s.sequenceRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
