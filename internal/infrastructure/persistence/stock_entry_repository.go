package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockEntryRepository implements ledger.StockEntryRepository using GORM.
// The ledger is append-only, so the repository exposes no update or delete.
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// Append writes a new ledger entry
func (r *GormStockEntryRepository) Append(ctx context.Context, entry *ledger.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// AppendAll writes a batch of ledger entries
func (r *GormStockEntryRepository) AppendAll(ctx context.Context, entries []*ledger.StockEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindByID finds an entry by its ID
func (r *GormStockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockEntry, error) {
	var entry ledger.StockEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByProduct returns entries for a product, newest first, paginated
func (r *GormStockEntryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[ledger.StockEntry], error) {
	base := r.db.WithContext(ctx).Model(&ledger.StockEntry{}).Where("product_id = ?", productID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	orderDir := ValidateSortOrder(filter.OrderDir)
	query := base.Order("entry_date " + orderDir).Order("created_at " + orderDir)
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []ledger.StockEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindRecentByProduct returns the most recent entries for a product
func (r *GormStockEntryRepository) FindRecentByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]ledger.StockEntry, error) {
	var entries []ledger.StockEntry
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("entry_date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByReference returns entries created by a source document
func (r *GormStockEntryRepository) FindByReference(ctx context.Context, referenceType, referenceID string) ([]ledger.StockEntry, error) {
	var entries []ledger.StockEntry
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByProductBetween returns entries for a product in [from, to), oldest first
func (r *GormStockEntryRepository) FindByProductBetween(ctx context.Context, productID uuid.UUID, from, to time.Time) ([]ledger.StockEntry, error) {
	var entries []ledger.StockEntry
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND entry_date >= ? AND entry_date < ?", productID, from, to).
		Order("entry_date ASC").
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumSignedByProduct returns the signed quantity sum over all entries of a
// product. Inbound counts positive, outbound negative, adjustments by their
// snapshot delta.
func (r *GormStockEntryRepository) SumSignedByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&ledger.StockEntry{}).
		Select(`COALESCE(SUM(CASE entry_type
			WHEN 'in' THEN quantity
			WHEN 'out' THEN -quantity
			ELSE new_stock - previous_stock
		END), 0) AS total`).
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormStockEntryRepository implements StockEntryRepository
var _ ledger.StockEntryRepository = (*GormStockEntryRepository)(nil)
