package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/api/dto"
	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/service"
)

// SuperAdminHandler exposes the platform owner's verification queue.
type SuperAdminHandler struct {
	auth       *service.AuthService
	superadmin *service.SuperAdminService
}

// NewSuperAdminHandler constructs handler.
func NewSuperAdminHandler(authService *service.AuthService, superadminService *service.SuperAdminService) *SuperAdminHandler {
	return &SuperAdminHandler{auth: authService, superadmin: superadminService}
}

// ListPendingAdmins handles GET /superadmin/admins/pending.
func (h *SuperAdminHandler) ListPendingAdmins(c *fiber.Ctx) error {
	if _, err := auth.SuperAdminFromContext(c); err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	admins, total, err := h.superadmin.ListPendingAdmins(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	items := make([]dto.PendingAdminResponse, 0, len(admins))
	for _, a := range admins {
		items = append(items, dto.PendingAdminResponse{
			ID:               a.ID,
			Name:             a.Name,
			Email:            a.Email,
			Phone:            a.Phone,
			OrganizationID:   a.OrganizationID,
			OrganizationName: a.OrganizationName,
			CreatedAt:        a.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"total": total}})
}

// VerifyAdmin handles POST /superadmin/admins/:id/verify.
func (h *SuperAdminHandler) VerifyAdmin(c *fiber.Ctx) error {
	principal, err := auth.SuperAdminFromContext(c)
	if err != nil {
		return err
	}

	admin, err := h.auth.VerifyAdmin(c.Context(), c.Params("id"), principal.SuperAdminID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(admin)})
}

// GetAdmin handles GET /superadmin/admins/:id.
func (h *SuperAdminHandler) GetAdmin(c *fiber.Ctx) error {
	if _, err := auth.SuperAdminFromContext(c); err != nil {
		return err
	}

	admin, err := h.superadmin.GetAdmin(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(admin)})
}

// DeleteAdmin handles DELETE /superadmin/admins/:id.
func (h *SuperAdminHandler) DeleteAdmin(c *fiber.Ctx) error {
	if _, err := auth.SuperAdminFromContext(c); err != nil {
		return err
	}

	if err := h.superadmin.DeleteAdmin(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

// Stats handles GET /superadmin/stats.
func (h *SuperAdminHandler) Stats(c *fiber.Ctx) error {
	if _, err := auth.SuperAdminFromContext(c); err != nil {
		return err
	}

	stats, err := h.superadmin.AdminStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"total_admins":    stats.Total,
		"verified_admins": stats.Verified,
		"pending_admins":  stats.Pending,
		"recent_admins":   stats.Recent,
	}})
}

// GetOrganization handles GET /superadmin/organizations/:id.
func (h *SuperAdminHandler) GetOrganization(c *fiber.Ctx) error {
	if _, err := auth.SuperAdminFromContext(c); err != nil {
		return err
	}

	org, err := h.superadmin.GetOrganization(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":             org.ID,
		"name":           org.Name,
		"address":        org.Address,
		"contact_person": org.ContactPerson,
		"contact_email":  org.ContactEmail,
		"contact_number": org.ContactNumber,
		"employee_quota": org.EmployeeQuota,
		"created_at":     org.CreatedAt,
	}})
}
