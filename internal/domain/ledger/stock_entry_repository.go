package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockEntryRepository defines the persistence contract for the stock ledger.
// The ledger is append-only: there are no update or delete operations.
type StockEntryRepository interface {
	// Append writes a new ledger entry
	Append(ctx context.Context, entry *StockEntry) error

	// AppendAll writes a batch of ledger entries
	AppendAll(ctx context.Context, entries []*StockEntry) error

	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockEntry, error)

	// FindByProduct returns entries for a product, newest first, paginated
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockEntry], error)

	// FindRecentByProduct returns the most recent entries for a product
	FindRecentByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]StockEntry, error)

	// FindByReference returns entries created by a source document
	FindByReference(ctx context.Context, referenceType, referenceID string) ([]StockEntry, error)

	// FindByProductBetween returns entries for a product in [from, to), oldest first
	FindByProductBetween(ctx context.Context, productID uuid.UUID, from, to time.Time) ([]StockEntry, error)

	// SumSignedByProduct returns the signed quantity sum over all entries of a
	// product. Used by the reconciliation check against the stock record
	SumSignedByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}
