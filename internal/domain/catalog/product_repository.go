package catalog

import (
	"context"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	shared.Repository[Product]

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindPaginated returns products matching the filter with pagination metadata
	FindPaginated(ctx context.Context, filter shared.Filter) (*shared.Paginated[Product], error)

	// FindBelowMinimum returns active products at or below their minimum stock level
	FindBelowMinimum(ctx context.Context) ([]Product, error)

	// StockValuation returns the sum of CurrentStock * CostPrice over active products
	StockValuation(ctx context.Context) (decimal.Decimal, error)

	// SaveWithLock persists the product guarded by its previous version.
	// Returns shared.ErrConcurrencyConflict when another writer got there first
	SaveWithLock(ctx context.Context, product *Product) error
}
