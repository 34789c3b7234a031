package trade

import (
	"context"

	"github.com/ims/backend/internal/domain/shared"
)

// SaleRepository defines the persistence contract for sales
type SaleRepository interface {
	shared.Repository[Sale]

	// FindByInvoiceNumber finds a sale by its invoice number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Sale, error)

	// FindPaginated returns sales matching the filter with pagination metadata
	FindPaginated(ctx context.Context, filter shared.Filter) (*shared.Paginated[Sale], error)

	// SaveWithLock persists the sale guarded by its previous version
	SaveWithLock(ctx context.Context, sale *Sale) error
}
