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

// FacilitiesHandler exposes the facility directory to admins and employees.
type FacilitiesHandler struct {
	facilities *service.FacilityService
}

// NewFacilitiesHandler constructs handler.
func NewFacilitiesHandler(facilityService *service.FacilityService) *FacilitiesHandler {
	return &FacilitiesHandler{facilities: facilityService}
}

// Create handles POST /facilities.
func (h *FacilitiesHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req dto.FacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.City == "" || req.Type == "" {
		return util.NewValidationError("name, city, type required", nil)
	}

	f, err := h.facilities.Create(c.Context(), actor.OrganizationID, actor.ID, actor.Role, facilityInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": facilityResponse(f)})
}

// List handles GET /facilities.
func (h *FacilitiesHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	filter := repository.FacilityFilter{
		OrganizationID: actor.OrganizationID,
		Limit:          c.QueryInt("limit", 20),
		Offset:         c.QueryInt("offset", 0),
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	if v := c.Query("type"); v != "" {
		t := domain.FacilityType(v)
		filter.Type = &t
	}
	if v := c.Query("city"); v != "" {
		filter.City = &v
	}
	if v := c.Query("state"); v != "" {
		filter.State = &v
	}
	if v := c.Query("status"); v != "" {
		st := domain.FacilityStatus(v)
		filter.Status = &st
	}

	facilities, total, err := h.facilities.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(facilities))
	for i := range facilities {
		items = append(items, facilityResponse(&facilities[i]))
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"total": total}})
}

// Get handles GET /facilities/:id.
func (h *FacilitiesHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	f, err := h.facilities.Get(c.Context(), actor.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": facilityResponse(f)})
}

// Update handles PUT /facilities/:id.
func (h *FacilitiesHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req dto.FacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	f, err := h.facilities.Update(c.Context(), actor.OrganizationID, c.Params("id"), facilityInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": facilityResponse(f)})
}

// Delete handles DELETE /facilities/:id. Admin only.
func (h *FacilitiesHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	if err := h.facilities.Delete(c.Context(), principal.OrganizationID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deactivated"}})
}

// Nearby handles GET /employee/facilities/nearby.
func (h *FacilitiesHandler) Nearby(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}

	lat := c.QueryFloat("latitude", 0)
	lng := c.QueryFloat("longitude", 0)
	if lat == 0 && lng == 0 {
		return util.NewValidationError("latitude and longitude required", nil)
	}

	nearby, err := h.facilities.Nearby(c.Context(), principal.OrganizationID, lat, lng,
		c.QueryFloat("radius_km", 10), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(nearby))
	for i := range nearby {
		item := facilityResponse(&nearby[i].Facility)
		item["distance_km"] = nearby[i].DistanceKm
		items = append(items, item)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Rate handles POST /employee/facilities/:id/rate.
func (h *FacilitiesHandler) Rate(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}

	var req dto.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	f, err := h.facilities.Rate(c.Context(), principal.OrganizationID, c.Params("id"), principal.EmployeeID, req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": facilityResponse(f)})
}

// VisitStats handles GET /facilities/:id/visits.
func (h *FacilitiesHandler) VisitStats(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.facilities.VisitStats(c.Context(), actor.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"total_visits": stats.TotalVisits,
		"last_visit":   stats.LastVisit,
	}})
}

// Stats handles GET /admin/facilities/stats.
func (h *FacilitiesHandler) Stats(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.facilities.StatsByType(c.Context(), principal.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(stats))
	for _, s := range stats {
		items = append(items, fiber.Map{
			"type":   s.Type,
			"count":  s.Count,
			"cities": s.Cities,
			"states": s.States,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func facilityInput(req dto.FacilityRequest) service.FacilityInput {
	return service.FacilityInput{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Pincode:     req.Pincode,
		Phone:       req.Phone,
		Email:       req.Email,
		Type:        domain.FacilityType(req.Type),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Specialties: req.Specialties,
	}
}

func facilityResponse(f *domain.Facility) fiber.Map {
	return fiber.Map{
		"id":            f.ID,
		"name":          f.Name,
		"address":       f.Address,
		"city":          f.City,
		"state":         f.State,
		"country":       f.Country,
		"pincode":       f.Pincode,
		"phone":         f.Phone,
		"email":         f.Email,
		"type":          f.Type,
		"status":        f.Status,
		"latitude":      f.Latitude,
		"longitude":     f.Longitude,
		"specialties":   f.Specialties,
		"rating":        f.Rating,
		"total_ratings": f.TotalRatings,
		"added_by":      f.AddedBy,
		"added_by_role": f.AddedByRole,
		"created_at":    f.CreatedAt,
	}
}
