package auth

import (
	"github.com/gofiber/fiber/v2"

	util "github.com/spec-kit/fieldforce-crm/pkg/util"
)

// Principals are role-specific views of verified claims, one type per role so
// a handler cannot read tenant fields off a superadmin token.

// SuperAdminPrincipal carries the verified superadmin identity.
type SuperAdminPrincipal struct {
	SuperAdminID string
	Email        string
}

// AdminPrincipal carries the verified admin identity and tenant.
type AdminPrincipal struct {
	AdminID          string
	OrganizationID   string
	OrganizationName string
	Email            string
}

// EmployeePrincipal carries the verified employee identity and tenant.
type EmployeePrincipal struct {
	EmployeeID       string
	AdminID          string
	OrganizationID   string
	OrganizationName string
	Email            string
}

const (
	superAdminKey = "auth_superadmin"
	adminKey      = "auth_admin"
	employeeKey   = "auth_employee"
)

// SuperAdminFromContext retrieves the authenticated superadmin.
func SuperAdminFromContext(c *fiber.Ctx) (*SuperAdminPrincipal, error) {
	if p, ok := c.Locals(superAdminKey).(*SuperAdminPrincipal); ok {
		return p, nil
	}
	return nil, util.NewUnauthorized("missing superadmin credentials")
}

// AdminFromContext retrieves the authenticated admin.
func AdminFromContext(c *fiber.Ctx) (*AdminPrincipal, error) {
	if p, ok := c.Locals(adminKey).(*AdminPrincipal); ok {
		return p, nil
	}
	return nil, util.NewUnauthorized("missing admin credentials")
}

// EmployeeFromContext retrieves the authenticated employee.
func EmployeeFromContext(c *fiber.Ctx) (*EmployeePrincipal, error) {
	if p, ok := c.Locals(employeeKey).(*EmployeePrincipal); ok {
		return p, nil
	}
	return nil, util.NewUnauthorized("missing employee credentials")
}
