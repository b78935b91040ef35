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

// OrdersHandler exposes the order lifecycle to admins and employees.
type OrdersHandler struct {
	auth   *service.AuthService
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(authService *service.AuthService, orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{auth: authService, orders: orderService}
}

// CreateByAdmin handles POST /admin/orders.
func (h *OrdersHandler) CreateByAdmin(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}
	admin, err := h.auth.CurrentAdmin(c.Context(), principal.AdminID)
	if err != nil {
		return err
	}

	req, err := parseOrderRequest(c)
	if err != nil {
		return err
	}

	order, err := h.orders.CreateByAdmin(c.Context(), admin, orderInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": orderResponse(order)})
}

// CreateByEmployee handles POST /employee/orders.
func (h *OrdersHandler) CreateByEmployee(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}
	emp, err := h.auth.CurrentEmployee(c.Context(), principal.OrganizationID, principal.EmployeeID)
	if err != nil {
		return err
	}

	req, err := parseOrderRequest(c)
	if err != nil {
		return err
	}

	order, err := h.orders.CreateByEmployee(c.Context(), emp, orderInput(req), nil)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": orderResponse(order)})
}

// List handles GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	filter := repository.OrderFilter{
		OrganizationID: actor.OrganizationID,
		Limit:          c.QueryInt("limit", 20),
		Offset:         c.QueryInt("offset", 0),
	}
	if actor.Role == domain.RoleEmployee {
		// employees only see their own orders
		filter.EmployeeID = &actor.ID
	} else if v := c.Query("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.OrderStatus(v)
		filter.Status = &status
	}

	orders, total, err := h.orders.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"total": total}})
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.Context(), actor.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	if actor.Role == domain.RoleEmployee {
		if order.EmployeeID == nil || *order.EmployeeID != actor.ID {
			return util.NewNotFound("order", nil)
		}
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// UpdateByEmployee handles PUT /employee/orders/:id.
func (h *OrdersHandler) UpdateByEmployee(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}
	emp, err := h.auth.CurrentEmployee(c.Context(), principal.OrganizationID, principal.EmployeeID)
	if err != nil {
		return err
	}

	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.UpdateByEmployee(c.Context(), emp, c.Params("id"), orderInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// Decide handles PATCH /admin/orders/:id/status.
func (h *OrdersHandler) Decide(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.OrderDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.Decide(c.Context(), principal.OrganizationID, c.Params("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orderResponse(order)})
}

// MySales handles GET /employee/sales.
func (h *OrdersHandler) MySales(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}

	sales, err := h.orders.SalesByEmployee(c.Context(), principal.OrganizationID, principal.EmployeeID)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(sales))
	for i := range sales {
		items = append(items, saleResponse(&sales[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseOrderRequest(c *fiber.Ctx) (dto.OrderRequest, error) {
	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return req, util.NewValidationError("invalid payload", nil)
	}
	if req.FacilityID == "" || len(req.Items) == 0 {
		return req, util.NewValidationError("facility_id and items required", nil)
	}
	return req, nil
}

func orderInput(req dto.OrderRequest) service.OrderInput {
	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return service.OrderInput{
		FacilityID: req.FacilityID,
		Lines:      lines,
		Notes:      req.Notes,
	}
}

func orderItems(items []domain.OrderItem) []fiber.Map {
	out := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		out = append(out, fiber.Map{
			"product_id": item.ProductID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"price":      item.Price,
			"total":      item.Total,
		})
	}
	return out
}

func orderResponse(o *domain.Order) fiber.Map {
	return fiber.Map{
		"id":              o.ID,
		"facility_id":     o.FacilityID,
		"facility_name":   o.FacilityName,
		"employee_id":     o.EmployeeID,
		"admin_id":        o.AdminID,
		"meeting_id":      o.MeetingID,
		"items":           orderItems(o.Items),
		"notes":           o.Notes,
		"total_amount":    o.TotalAmount,
		"status":          o.Status,
		"created_by_name": o.CreatedByName,
		"created_at":      o.CreatedAt,
	}
}

func saleResponse(s *domain.Sale) fiber.Map {
	return fiber.Map{
		"id":           s.ID,
		"order_id":     s.OrderID,
		"facility_id":  s.FacilityID,
		"employee_id":  s.EmployeeID,
		"admin_id":     s.AdminID,
		"items":        orderItems(s.Items),
		"total_amount": s.TotalAmount,
		"created_at":   s.CreatedAt,
	}
}
