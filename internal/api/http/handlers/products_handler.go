package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/api/dto"
	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/internal/service"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// ProductsHandler exposes the catalog. Writes are admin only, reads are
// shared with employees.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// Create handles POST /admin/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Category == "" || req.Price == nil {
		return util.NewValidationError("name, category, price required", nil)
	}

	p, err := h.products.Create(c.Context(), principal.OrganizationID, principal.AdminID, productInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(p)})
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	filter := repository.ProductFilter{
		OrganizationID: actor.OrganizationID,
		ActiveOnly:     c.QueryBool("active_only", actor.Role == domain.RoleEmployee),
		Limit:          c.QueryInt("limit", 20),
		Offset:         c.QueryInt("offset", 0),
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	products, total, err := h.products.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(products))
	for i := range products {
		items = append(items, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"total": total}})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	p, err := h.products.Get(c.Context(), actor.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(p)})
}

// Categories handles GET /products/categories.
func (h *ProductsHandler) Categories(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	categories, err := h.products.Categories(c.Context(), actor.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// Update handles PUT /admin/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	p, err := h.products.Update(c.Context(), principal.OrganizationID, c.Params("id"), productInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(p)})
}

// BulkStock handles PATCH /admin/products/stock.
func (h *ProductsHandler) BulkStock(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.BulkStockRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	adjustments := make([]service.StockAdjustment, 0, len(req.Adjustments))
	for _, a := range req.Adjustments {
		adjustments = append(adjustments, service.StockAdjustment{ProductID: a.ProductID, Stock: a.Stock})
	}

	updated, err := h.products.BulkUpdateStock(c.Context(), principal.OrganizationID, adjustments)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(updated))
	for i := range updated {
		items = append(items, productResponse(&updated[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete handles DELETE /admin/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.Context(), principal.OrganizationID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deactivated"}})
}

// InventoryStats handles GET /admin/products/inventory.
func (h *ProductsHandler) InventoryStats(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.products.InventoryStats(c.Context(), principal.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(stats))
	for _, s := range stats {
		items = append(items, fiber.Map{
			"category":       s.Category,
			"total_products": s.TotalProducts,
			"total_value":    s.TotalValue,
			"low_stock":      s.LowStock,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// SalesStats handles GET /admin/products/:id/sales.
func (h *ProductsHandler) SalesStats(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.products.SalesStats(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"total_sales":    stats.TotalSales,
		"total_quantity": stats.TotalQuantity,
	}})
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:         req.Name,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Price:        req.Price,
		Stock:        req.Stock,
	}
}

func productResponse(p *domain.Product) fiber.Map {
	return fiber.Map{
		"id":           p.ID,
		"name":         p.Name,
		"category":     p.Category,
		"manufacturer": p.Manufacturer,
		"price":        p.Price,
		"stock":        p.Stock,
		"active":       p.Active,
		"created_at":   p.CreatedAt,
	}
}
