package trade

import (
	"context"

	"github.com/ims/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence contract for purchase orders
type PurchaseOrderRepository interface {
	shared.Repository[PurchaseOrder]

	// FindByOrderNumber finds a purchase order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindPaginated returns orders matching the filter with pagination metadata
	FindPaginated(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)

	// FindByStatus returns orders in the given status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus) ([]PurchaseOrder, error)

	// SaveWithLock persists the order guarded by its previous version
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
}
