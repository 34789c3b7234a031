package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/numbering"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/trade"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// SaleService processes sales. A sale is all-or-nothing: the invoice, the
// stock deductions and the ledger entries for every line commit in one
// transaction, and a single line without cover rejects the whole sale.
type SaleService struct {
	scope           inventory.TransactionScope
	saleRepo        trade.SaleRepository
	idempotency     shared.IdempotencyStore
	idempotencyTTL  time.Duration
	businessMetrics *telemetry.BusinessMetrics
}

// NewSaleService creates a new SaleService. The sale repository serves the
// read paths; all writes go through the scope.
func NewSaleService(scope inventory.TransactionScope, saleRepo trade.SaleRepository) *SaleService {
	return &SaleService{
		scope:          scope,
		saleRepo:       saleRepo,
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
	}
}

// SetIdempotencyStore enables duplicate-submission protection for sales
func (s *SaleService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create processes a sale submission. Every line moves stock out and writes
// one ledger entry referencing the allocated invoice number.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create")
	defer span.End()
	telemetry.SetAttribute(span, "sale.line_count", len(req.Items))

	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("Sale must have at least one item")
	}

	paymentMethod := trade.PaymentMethod(req.PaymentMethod)
	if req.PaymentMethod == "" {
		paymentMethod = trade.PaymentMethodCash
	}
	if req.PaidAmount.GreaterThan(decimal.Zero) && !paymentMethod.IsValid() {
		return nil, shared.NewValidationError("Invalid payment method")
	}

	keyClaimed := false
	if s.idempotency != nil && req.IdempotencyKey != "" {
		fresh, err := s.idempotency.MarkProcessed(ctx, saleIdempotencyKey(req.IdempotencyKey), s.idempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
				"A sale with this idempotency key was already submitted")
		}
		keyClaimed = true
	}

	var response *SaleResponse

	err := inventory.RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			numbers := numbering.NewDocumentNumberService(repos.SequenceRepo())
			invoiceNumber, err := numbers.NextInvoiceNumber(ctx, time.Now())
			if err != nil {
				return err
			}

			sale, err := trade.NewSale(invoiceNumber, req.CustomerName, req.CustomerPhone)
			if err != nil {
				return err
			}

			entries := make([]*ledger.StockEntry, 0, len(req.Items))
			for _, line := range req.Items {
				product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
				if err != nil {
					return err
				}
				if !product.Active {
					return shared.NewValidationError(
						fmt.Sprintf("Product %s is inactive", product.Name))
				}

				unitPrice := product.SellingPrice
				if line.UnitPrice != nil {
					unitPrice = *line.UnitPrice
				}

				if _, err := sale.AddItem(product.ID, product.Name, product.SKU,
					line.Quantity, unitPrice, line.Discount); err != nil {
					return err
				}

				movement, err := product.ApplyMovement(catalog.MovementOut, line.Quantity)
				if err != nil {
					return err
				}

				entry, err := ledger.NewEntryFromMovement(product.ID, movement,
					ledger.ReasonSale, product.CostPrice)
				if err != nil {
					return err
				}
				entry.WithReference(ledger.ReferenceTypeSale, invoiceNumber)

				if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
					return err
				}
				entries = append(entries, entry)
			}

			if err := sale.SetTaxAndDiscount(req.TaxAmount, req.DiscountAmount); err != nil {
				return err
			}
			if req.Notes != "" {
				sale.SetNotes(req.Notes)
			}
			if req.PaidAmount.GreaterThan(decimal.Zero) {
				if err := sale.RecordPayment(paymentMethod, req.PaidAmount); err != nil {
					return err
				}
			}
			if err := sale.Validate(); err != nil {
				return err
			}

			if err := repos.SaleRepo().Save(ctx, sale); err != nil {
				return err
			}
			if err := repos.EntryRepo().AppendAll(ctx, entries); err != nil {
				return err
			}

			resp := ToSaleResponse(sale)
			response = &resp
			return nil
		})
	})
	if err != nil {
		// The sale did not commit, so hand the key back: a legitimate
		// retry must not be turned away as a duplicate
		if keyClaimed {
			_ = s.idempotency.Release(ctx, saleIdempotencyKey(req.IdempotencyKey))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, "sale.invoice_number", response.InvoiceNumber)
	telemetry.SetOK(span)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordSale(ctx, response.TotalAmount, response.PaymentMethod)
		for range response.Items {
			s.businessMetrics.RecordStockMovement(ctx,
				ledger.EntryTypeOut.String(), ledger.ReasonSale.String())
		}
	}

	return response, nil
}

// RecordPayment registers a payment against a sale
func (s *SaleService) RecordPayment(ctx context.Context, saleID uuid.UUID, req RecordPaymentRequest) (*SaleResponse, error) {
	var response *SaleResponse

	err := inventory.RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			sale, err := repos.SaleRepo().FindByID(ctx, saleID)
			if err != nil {
				return err
			}

			if err := sale.RecordPayment(trade.PaymentMethod(req.Method), req.Amount); err != nil {
				return err
			}
			if err := repos.SaleRepo().SaveWithLock(ctx, sale); err != nil {
				return err
			}

			resp := ToSaleResponse(sale)
			response = &resp
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByInvoiceNumber retrieves a sale by its invoice number
func (s *SaleService) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}

	page, err := s.saleRepo.FindPaginated(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToSalePage(page), nil
}

func saleIdempotencyKey(key string) string {
	return "sale:" + key
}
