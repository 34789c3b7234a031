package partner

import (
	"context"

	"github.com/ims/backend/internal/domain/shared"
)

// SupplierRepository defines the persistence contract for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]

	// FindByCode finds a supplier by its code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindPaginated returns suppliers matching the filter with pagination metadata
	FindPaginated(ctx context.Context, filter shared.Filter) (*shared.Paginated[Supplier], error)
}
