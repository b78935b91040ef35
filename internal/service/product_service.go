package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// ProductInput carries the fields captured when adding a catalog item.
type ProductInput struct {
	Name         string
	Category     string
	Manufacturer string
	Price        *float64
	Stock        *int
}

// ProductService manages the sellable catalog of one organization.
type ProductService struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, sales repository.SaleRepository) *ProductService {
	return &ProductService{products: products, sales: sales}
}

// Create adds a catalog item. Names are unique per organization.
func (s *ProductService) Create(ctx context.Context, orgID, createdBy string, in ProductInput) (*domain.Product, error) {
	if in.Price == nil || *in.Price < 0 {
		return nil, util.NewValidationError("price must be non-negative", nil)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, util.NewValidationError("stock must be non-negative", nil)
	}
	if _, err := s.products.GetByName(ctx, orgID, in.Name); err == nil {
		return nil, util.NewValidationError("product with this name already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	p := &domain.Product{
		ID:             util.NewProductID(),
		OrganizationID: orgID,
		Name:           in.Name,
		Category:       in.Category,
		Manufacturer:   in.Manufacturer,
		Price:          *in.Price,
		Stock:          stock,
		Active:         true,
		CreatedBy:      createdBy,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one product scoped to the organization.
func (s *ProductService) Get(ctx context.Context, orgID, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("product", nil)
		}
		return nil, err
	}
	return p, nil
}

// List returns products matching the filter plus the unpaginated total.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.products.List(ctx, filter)
}

// Categories returns the distinct category names in use.
func (s *ProductService) Categories(ctx context.Context, orgID string) ([]string, error) {
	return s.products.Categories(ctx, orgID)
}

// Update applies partial changes to a product.
func (s *ProductService) Update(ctx context.Context, orgID, id string, in ProductInput) (*domain.Product, error) {
	p, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != p.Name {
		if _, err := s.products.GetByName(ctx, orgID, in.Name); err == nil {
			return nil, util.NewValidationError("product with this name already exists", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		p.Name = in.Name
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Manufacturer != "" {
		p.Manufacturer = in.Manufacturer
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, util.NewValidationError("price must be non-negative", nil)
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, util.NewValidationError("stock must be non-negative", nil)
		}
		p.Stock = *in.Stock
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// StockAdjustment is one line of a bulk stock update.
type StockAdjustment struct {
	ProductID string
	Stock     int
}

// BulkUpdateStock applies stock levels to several products at once. Unknown
// products fail the whole batch before any write.
func (s *ProductService) BulkUpdateStock(ctx context.Context, orgID string, adjustments []StockAdjustment) ([]domain.Product, error) {
	if len(adjustments) == 0 {
		return nil, util.NewValidationError("no adjustments supplied", nil)
	}

	updated := make([]domain.Product, 0, len(adjustments))
	products := make([]*domain.Product, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.Stock < 0 {
			return nil, util.NewValidationError("stock must be non-negative", map[string]any{"product_id": adj.ProductID})
		}
		p, err := s.Get(ctx, orgID, adj.ProductID)
		if err != nil {
			return nil, err
		}
		p.Stock = adj.Stock
		products = append(products, p)
	}
	for _, p := range products {
		if err := s.products.Update(ctx, p); err != nil {
			return nil, err
		}
		updated = append(updated, *p)
	}
	return updated, nil
}

// Delete deactivates a product so it no longer appears in the catalog.
func (s *ProductService) Delete(ctx context.Context, orgID, id string) error {
	if err := s.products.SoftDelete(ctx, orgID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("product", nil)
		}
		return err
	}
	return nil
}

// InventoryStats aggregates the catalog per category.
func (s *ProductService) InventoryStats(ctx context.Context, orgID string) ([]domain.CategoryInventory, error) {
	return s.products.InventoryStats(ctx, orgID)
}

// SalesStats aggregates completed sales for one product.
func (s *ProductService) SalesStats(ctx context.Context, orgID, id string) (*domain.ProductSalesStats, error) {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return nil, err
	}
	return s.sales.ProductStats(ctx, orgID, id)
}
