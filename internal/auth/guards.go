package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	util "github.com/spec-kit/fieldforce-crm/pkg/util"
)

// Guards validate the bearer token and enforce the role contract before any
// handler logic runs. They do no database I/O; tenant membership is taken
// from the verified claims.
type Guards struct {
	tokens *TokenManager
}

// NewGuards constructs the guard set.
func NewGuards(tokens *TokenManager) *Guards {
	return &Guards{tokens: tokens}
}

// RequireSuperAdmin gates superadmin-only routes.
func (g *Guards) RequireSuperAdmin(c *fiber.Ctx) error {
	claims, err := g.verifyBearer(c)
	if err != nil {
		return err
	}
	principal, err := SuperAdminClaims(claims)
	if err != nil {
		return err
	}
	c.Locals(superAdminKey, principal)
	return c.Next()
}

// RequireAdmin gates admin routes and makes the tenant claims available.
func (g *Guards) RequireAdmin(c *fiber.Ctx) error {
	claims, err := g.verifyBearer(c)
	if err != nil {
		return err
	}
	principal, err := AdminClaims(claims)
	if err != nil {
		return err
	}
	c.Locals(adminKey, principal)
	return c.Next()
}

// RequireEmployee gates employee routes and makes the tenant claims available.
func (g *Guards) RequireEmployee(c *fiber.Ctx) error {
	claims, err := g.verifyBearer(c)
	if err != nil {
		return err
	}
	principal, err := EmployeeClaims(claims)
	if err != nil {
		return err
	}
	c.Locals(employeeKey, principal)
	return c.Next()
}

func (g *Guards) verifyBearer(c *fiber.Ctx) (*Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, util.NewUnauthorized("invalid authorization header")
	}

	claims, err := g.tokens.Verify(parts[1])
	if err != nil {
		return nil, util.NewUnauthorized(err.Error())
	}
	return claims, nil
}

// SuperAdminClaims checks the role contract for superadmin tokens.
func SuperAdminClaims(claims *Claims) (*SuperAdminPrincipal, error) {
	if claims.Role != domain.RoleSuperAdmin {
		return nil, util.NewForbidden("not authorized as superadmin")
	}
	if claims.SuperAdminID == "" {
		return nil, util.NewUnauthorized("invalid token: missing superadmin_id")
	}
	return &SuperAdminPrincipal{
		SuperAdminID: claims.SuperAdminID,
		Email:        claims.Email,
	}, nil
}

// AdminClaims checks the role contract for admin tokens. A missing mandated
// field is an authentication failure, never a silent default scope.
func AdminClaims(claims *Claims) (*AdminPrincipal, error) {
	if claims.Role != domain.RoleAdmin {
		return nil, util.NewForbidden("not authorized as admin")
	}
	for field, value := range map[string]string{
		"admin_id":        claims.AdminID,
		"organization_id": claims.OrganizationID,
		"email":           claims.Email,
	} {
		if value == "" {
			return nil, util.NewUnauthorized("invalid token: missing " + field)
		}
	}
	return &AdminPrincipal{
		AdminID:          claims.AdminID,
		OrganizationID:   claims.OrganizationID,
		OrganizationName: claims.OrganizationName,
		Email:            claims.Email,
	}, nil
}

// EmployeeClaims checks the role contract for employee tokens.
func EmployeeClaims(claims *Claims) (*EmployeePrincipal, error) {
	if claims.Role != domain.RoleEmployee {
		return nil, util.NewForbidden("not authorized as employee")
	}
	for field, value := range map[string]string{
		"employee_id":     claims.EmployeeID,
		"organization_id": claims.OrganizationID,
		"email":           claims.Email,
	} {
		if value == "" {
			return nil, util.NewUnauthorized("invalid token: missing " + field)
		}
	}
	return &EmployeePrincipal{
		EmployeeID:       claims.EmployeeID,
		AdminID:          claims.AdminID,
		OrganizationID:   claims.OrganizationID,
		OrganizationName: claims.OrganizationName,
		Email:            claims.Email,
	}, nil
}
