package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/ledger"
	"github.com/ims/backend/internal/domain/shared"
)

// ProductService handles product catalog operations. Creating a product with
// initial stock opens its ledger with an initial_stock entry so the record
// and the ledger agree from day one.
type ProductService struct {
	scope       inventory.TransactionScope
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(scope inventory.TransactionScope, productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		scope:       scope,
		productRepo: productRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindBySKU(ctx, req.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			"A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Unit, req.CostPrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	if err := product.SetStockLevels(req.MinStockLevel, req.MaxStockLevel); err != nil {
		return nil, err
	}
	if req.InitialStock.IsNegative() {
		return nil, shared.NewValidationError("Initial stock cannot be negative")
	}

	err = s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
		var entry *ledger.StockEntry
		if req.InitialStock.IsPositive() {
			movement, err := product.ApplyMovement(catalog.MovementIn, req.InitialStock)
			if err != nil {
				return err
			}
			entry, err = ledger.NewEntryFromMovement(product.ID, movement,
				ledger.ReasonInitialStock, product.CostPrice)
			if err != nil {
				return err
			}
		}

		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		if entry != nil {
			if err := repos.EntryRepo().Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's details, prices and thresholds
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var response *ProductResponse

	err := inventory.RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			product, err := repos.ProductRepo().FindByID(ctx, productID)
			if err != nil {
				return err
			}

			if err := product.UpdateDetails(req.Name, req.Unit); err != nil {
				return err
			}
			if err := product.UpdatePrices(req.CostPrice, req.SellingPrice); err != nil {
				return err
			}
			if err := product.SetStockLevels(req.MinStockLevel, req.MaxStockLevel); err != nil {
				return err
			}
			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}

			resp := ToProductResponse(product)
			response = &resp
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// Deactivate soft-deletes a product
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) error {
	return s.setActive(ctx, productID, false)
}

// Activate re-enables a deactivated product
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) error {
	return s.setActive(ctx, productID, true)
}

func (s *ProductService) setActive(ctx context.Context, productID uuid.UUID, active bool) error {
	return inventory.RunWithConflictRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			product, err := repos.ProductRepo().FindByID(ctx, productID)
			if err != nil {
				return err
			}

			if active {
				err = product.Activate()
			} else {
				err = product.Deactivate()
			}
			if err != nil {
				return err
			}

			return repos.ProductRepo().SaveWithLock(ctx, product)
		})
	})
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	page, err := s.productRepo.FindPaginated(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToProductPage(page), nil
}

// LowStock returns active products at or below their minimum stock level
func (s *ProductService) LowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}
