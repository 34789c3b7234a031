package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/telemetry"
)

// StockService handles manual stock adjustments, ledger queries and
// record-versus-ledger reconciliation
type StockService struct {
	scope           TransactionScope
	entryRepo       ledger.StockEntryRepository
	productRepo     catalog.ProductRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewStockService creates a new StockService. The entry and product
// repositories serve read paths; all mutations go through the scope.
func NewStockService(
	scope TransactionScope,
	entryRepo ledger.StockEntryRepository,
	productRepo catalog.ProductRepository,
) *StockService {
	return &StockService{
		scope:       scope,
		entryRepo:   entryRepo,
		productRepo: productRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *StockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Adjust applies a manual signed stock adjustment. A negative delta larger
// than the stock on hand clamps the stock at zero; the ledger entry records
// the magnitude that actually took effect, not the requested one.
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) (*AdjustmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust")
	defer span.End()
	telemetry.SetAttributes(span,
		"product.id", req.ProductID.String(),
		"adjustment.reason", req.Reason,
	)

	reason := ledger.MovementReason(req.Reason)
	if !reason.IsAdjustmentReason() {
		return nil, shared.NewValidationError("Reason is not valid for a manual adjustment")
	}

	var response *AdjustmentResponse

	err := RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
			if err != nil {
				return err
			}

			movement, err := product.ApplyMovement(catalog.MovementAdjustment, req.Quantity)
			if err != nil {
				return err
			}

			response = &AdjustmentResponse{
				ProductID:     product.ID,
				ProductName:   product.Name,
				Requested:     req.Quantity.Abs(),
				Applied:       movement.Applied,
				Clamped:       !movement.Applied.Equal(req.Quantity.Abs()),
				PreviousStock: movement.PreviousStock,
				NewStock:      movement.NewStock,
			}

			// A delta fully absorbed by the zero floor moves nothing.
			// The clamp succeeds, but there is no movement to record.
			if movement.Applied.IsZero() {
				return nil
			}

			entry, err := ledger.NewEntryFromMovement(product.ID, movement, reason, product.CostPrice)
			if err != nil {
				return err
			}
			entry.WithReference(ledger.ReferenceTypeAdjustment, entry.ID.String())
			if req.Notes != "" {
				entry.WithNotes(req.Notes)
			}

			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}
			if err := repos.EntryRepo().Append(ctx, entry); err != nil {
				return err
			}

			response.EntryID = entry.ID
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, "adjustment.clamped", response.Clamped)
	telemetry.SetOK(span)

	if s.businessMetrics != nil && !response.Applied.IsZero() {
		s.businessMetrics.RecordStockMovement(ctx, ledger.EntryTypeAdjustment.String(), reason.String())
	}

	return response, nil
}

// ListEntries returns the ledger for a product, newest first
func (s *StockService) ListEntries(ctx context.Context, productID uuid.UUID, filter EntryListFilter) (*shared.Paginated[StockEntryResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	page, err := s.entryRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToEntryPage(page), nil
}

// RecentEntries returns the most recent ledger entries for a product
func (s *StockService) RecentEntries(ctx context.Context, productID uuid.UUID, limit int) ([]StockEntryResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := s.entryRepo.FindRecentByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	return ToStockEntryResponses(entries), nil
}

// EntriesByReference returns the ledger entries written by a source document
func (s *StockService) EntriesByReference(ctx context.Context, referenceType, referenceID string) ([]StockEntryResponse, error) {
	entries, err := s.entryRepo.FindByReference(ctx, referenceType, referenceID)
	if err != nil {
		return nil, err
	}
	return ToStockEntryResponses(entries), nil
}

// Reconcile checks that a product's stock record equals the signed sum of
// its ledger entries
func (s *StockService) Reconcile(ctx context.Context, productID uuid.UUID) (*ReconciliationResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	ledgerStock, err := s.entryRepo.SumSignedByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	difference := product.CurrentStock.Sub(ledgerStock)
	return &ReconciliationResponse{
		ProductID:     product.ID,
		ProductSKU:    product.SKU,
		ProductName:   product.Name,
		RecordedStock: product.CurrentStock,
		LedgerStock:   ledgerStock,
		Difference:    difference,
		Consistent:    difference.IsZero(),
	}, nil
}
