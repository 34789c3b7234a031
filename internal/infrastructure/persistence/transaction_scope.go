package persistence

import (
	"context"

	"github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/numbering"
	"github.com/ims/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements inventory.TransactionScope by running the
// unit of work inside a single database transaction. Every repository handed
// to the callback is bound to that transaction, so a stock mutation and its
// ledger entry commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos inventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormTransactionalRepositories(tx))
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	productRepo  *GormProductRepository
	entryRepo    *GormStockEntryRepository
	saleRepo     *GormSaleRepository
	orderRepo    *GormPurchaseOrderRepository
	sequenceRepo *GormSequenceRepository
}

func newGormTransactionalRepositories(tx *gorm.DB) *gormTransactionalRepositories {
	return &gormTransactionalRepositories{
		productRepo:  NewGormProductRepository(tx),
		entryRepo:    NewGormStockEntryRepository(tx),
		saleRepo:     NewGormSaleRepository(tx),
		orderRepo:    NewGormPurchaseOrderRepository(tx),
		sequenceRepo: NewGormSequenceRepository(tx),
	}
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return r.productRepo
}

func (r *gormTransactionalRepositories) EntryRepo() ledger.StockEntryRepository {
	return r.entryRepo
}

func (r *gormTransactionalRepositories) SaleRepo() trade.SaleRepository {
	return r.saleRepo
}

func (r *gormTransactionalRepositories) OrderRepo() trade.PurchaseOrderRepository {
	return r.orderRepo
}

func (r *gormTransactionalRepositories) SequenceRepo() numbering.SequenceRepository {
	return r.sequenceRepo
}

// Ensure the implementations satisfy the application contracts
var (
	_ inventory.TransactionScope          = (*GormTransactionScope)(nil)
	_ inventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
