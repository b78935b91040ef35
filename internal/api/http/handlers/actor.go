package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// actor is the tenant-scoped identity behind a request, admin or employee.
type actor struct {
	OrganizationID string
	ID             string
	Role           domain.Role
}

// actorFromContext resolves whichever tenant principal the guard stored.
func actorFromContext(c *fiber.Ctx) (*actor, error) {
	if admin, err := auth.AdminFromContext(c); err == nil {
		return &actor{OrganizationID: admin.OrganizationID, ID: admin.AdminID, Role: domain.RoleAdmin}, nil
	}
	if emp, err := auth.EmployeeFromContext(c); err == nil {
		return &actor{OrganizationID: emp.OrganizationID, ID: emp.EmployeeID, Role: domain.RoleEmployee}, nil
	}
	return nil, util.NewUnauthorized("authentication required")
}
