package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/numbering"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/trade"
	"github.com/ims/backend/internal/infrastructure/telemetry"
)

// PurchaseOrderService handles the purchase order lifecycle: creation,
// cumulative receiving and cancellation. Receiving moves stock in line by
// line; cancelling never reverses stock already received.
type PurchaseOrderService struct {
	scope           inventory.TransactionScope
	orderRepo       trade.PurchaseOrderRepository
	supplierRepo    partner.SupplierRepository
	productRepo     catalog.ProductRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	scope inventory.TransactionScope,
	orderRepo trade.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:        scope,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a purchase order in pending status with an allocated order
// number
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("Purchase order must have at least one item")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewInvalidStateError("Supplier is inactive")
	}

	var response *PurchaseOrderResponse

	err = s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
		numbers := numbering.NewDocumentNumberService(repos.SequenceRepo())
		orderNumber, err := numbers.NextPurchaseOrderNumber(ctx)
		if err != nil {
			return err
		}

		order, err := trade.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name)
		if err != nil {
			return err
		}

		for _, line := range req.Items {
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.Active {
				return shared.NewValidationError(
					fmt.Sprintf("Product %s is inactive", product.Name))
			}
			if _, err := order.AddItem(product.ID, product.Name, product.SKU,
				line.Quantity, line.UnitCost); err != nil {
				return err
			}
		}

		if err := order.SetTaxAndDiscount(req.TaxAmount, req.DiscountAmount); err != nil {
			return err
		}
		if req.ExpectedDate != nil {
			order.SetExpectedDate(*req.ExpectedDate)
		}
		if req.Notes != "" {
			order.SetNotes(req.Notes)
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		resp := ToPurchaseOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// Receive processes a receiving submission. Each line reports the new
// cumulative received quantity; only the delta against what was already
// recorded moves stock and writes ledger entries. Re-submitting the same
// totals applies nothing.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "receive")
	defer span.End()
	telemetry.SetAttribute(span, "order.id", orderID.String())

	if len(req.Lines) == 0 {
		return nil, shared.NewValidationError("Receive lines cannot be empty")
	}

	var response *ReceiveResponse

	err := inventory.RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			order, err := repos.OrderRepo().FindByID(ctx, orderID)
			if err != nil {
				return err
			}

			lines := make([]trade.ReceiveLine, 0, len(req.Lines))
			for _, line := range req.Lines {
				lines = append(lines, trade.ReceiveLine{
					ProductID:        line.ProductID,
					ReceivedQuantity: line.ReceivedQuantity,
					ExpiryDate:       line.ExpiryDate,
				})
			}

			results, err := order.Receive(lines)
			if err != nil {
				return err
			}

			entries := make([]*ledger.StockEntry, 0, len(results))
			lineResponses := make([]ReceiptLineResponse, 0, len(results))
			for _, result := range results {
				item := order.GetItemByProduct(result.ProductID)
				lineResponses = append(lineResponses, ReceiptLineResponse{
					ProductID:        result.ProductID,
					ProductName:      result.ProductName,
					AppliedDelta:     result.Delta,
					ReceivedQuantity: item.ReceivedQuantity,
				})

				if !result.Delta.IsPositive() {
					continue
				}

				product, err := repos.ProductRepo().FindByID(ctx, result.ProductID)
				if err != nil {
					return err
				}
				movement, err := product.ApplyMovement(catalog.MovementIn, result.Delta)
				if err != nil {
					return err
				}
				entry, err := ledger.NewEntryFromMovement(product.ID, movement,
					ledger.ReasonPurchase, result.UnitCost)
				if err != nil {
					return err
				}
				entry.WithReference(ledger.ReferenceTypePurchaseOrder, order.OrderNumber)

				if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
					return err
				}
				entries = append(entries, entry)
			}

			if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
				return err
			}
			if len(entries) > 0 {
				if err := repos.EntryRepo().AppendAll(ctx, entries); err != nil {
					return err
				}
			}

			response = &ReceiveResponse{
				Order: ToPurchaseOrderResponse(order),
				Lines: lineResponses,
			}
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, "order.status", response.Order.Status)
	telemetry.SetOK(span)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPurchaseReceipt(ctx, response.Order.Status)
		for _, line := range response.Lines {
			if line.AppliedDelta.IsPositive() {
				s.businessMetrics.RecordStockMovement(ctx,
					ledger.EntryTypeIn.String(), ledger.ReasonPurchase.String())
			}
		}
	}

	return response, nil
}

// Cancel cancels a purchase order. Stock already received stays on hand.
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse

	err := inventory.RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			order, err := repos.OrderRepo().FindByID(ctx, orderID)
			if err != nil {
				return err
			}

			if err := order.Cancel(req.Reason); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
				return err
			}

			resp := ToPurchaseOrderResponse(order)
			response = &resp
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by its order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) (*shared.Paginated[PurchaseOrderResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := trade.PurchaseOrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Invalid purchase order status")
		}
		domainFilter.Filters["status"] = filter.Status
	}

	page, err := s.orderRepo.FindPaginated(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderPage(page), nil
}
