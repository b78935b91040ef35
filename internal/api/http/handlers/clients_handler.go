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

// ClientsHandler exposes the contact directory to admins and employees.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clientService}
}

// Create handles POST /clients.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.FacilityID == "" || req.Name == "" || req.Mobile == "" {
		return util.NewValidationError("facility_id, name, mobile required", nil)
	}

	client, err := h.clients.Create(c.Context(), actor.OrganizationID, actor.ID, actor.Role, clientInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// List handles GET /clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	filter := repository.ClientFilter{
		OrganizationID: actor.OrganizationID,
		SortBy:         c.Query("sort_by"),
		SortDesc:       c.QueryBool("sort_desc", false),
		Limit:          c.QueryInt("limit", 20),
		Offset:         c.QueryInt("offset", 0),
	}
	if v := c.Query("facility_id"); v != "" {
		filter.FacilityID = &v
	}
	if v := c.Query("capacity"); v != "" {
		capacity := domain.ClientCapacity(v)
		filter.Capacity = &capacity
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	clients, total, err := h.clients.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"total": total}})
}

// Get handles GET /clients/:id.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	client, err := h.clients.Get(c.Context(), actor.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// Update handles PUT /clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	client, err := h.clients.Update(c.Context(), actor.OrganizationID, c.Params("id"), clientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// Mine handles GET /employee/clients/mine.
func (h *ClientsHandler) Mine(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}

	clients, err := h.clients.ListByCreator(c.Context(), principal.OrganizationID, principal.EmployeeID)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		FacilityID:  req.FacilityID,
		Name:        req.Name,
		Designation: req.Designation,
		Department:  req.Department,
		Mobile:      req.Mobile,
		Email:       req.Email,
		Capacity:    domain.ClientCapacity(req.Capacity),
	}
}

func clientResponse(cl *domain.Client) fiber.Map {
	return fiber.Map{
		"id":              cl.ID,
		"facility_id":     cl.FacilityID,
		"facility_name":   cl.FacilityName,
		"name":            cl.Name,
		"designation":     cl.Designation,
		"department":      cl.Department,
		"mobile":          cl.Mobile,
		"email":           cl.Email,
		"capacity":        cl.Capacity,
		"created_by":      cl.CreatedBy,
		"created_by_role": cl.CreatedByRole,
		"created_at":      cl.CreatedAt,
	}
}
