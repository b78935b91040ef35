package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/api/dto"
	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/service"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// AuthHandler exposes registration and login endpoints for all principals.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginSuperAdmin handles POST /auth/superadmin/login.
func (h *AuthHandler) LoginSuperAdmin(c *fiber.Ctx) error {
	var req dto.SuperAdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	token, exp, err := h.auth.LoginSuperAdmin(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// RegisterAdmin handles POST /auth/admins/register.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.OrganizationName == "" || req.AdminName == "" || req.Email == "" {
		return util.NewValidationError("organization_name, admin_name, email required", nil)
	}

	admin, err := h.auth.RegisterAdmin(c.Context(), service.AdminRegistration{
		OrganizationName:    req.OrganizationName,
		OrganizationAddress: req.OrganizationAddress,
		ContactNumber:       req.ContactNumber,
		AdminName:           req.AdminName,
		AdminEmail:          req.Email,
		AdminPhone:          req.Phone,
		EmployeeQuota:       req.EmployeeQuota,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adminResponse(admin)})
}

// SetAdminPassword handles POST /auth/admins/password.
func (h *AuthHandler) SetAdminPassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	if err := h.auth.SetAdminPassword(c.Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_set"}})
}

// LoginAdmin handles POST /auth/admins/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"admin": adminResponse(admin),
		"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// RequestPasswordReset handles POST /auth/admins/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return util.NewValidationError("email required", nil)
	}

	if err := h.auth.RequestAdminPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "otp_sent"}})
}

// ConfirmPasswordReset handles POST /auth/admins/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return util.NewValidationError("email, otp, new_password required", nil)
	}

	if err := h.auth.ConfirmAdminPasswordReset(c.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}

// SetEmployeePassword handles POST /auth/employees/password.
func (h *AuthHandler) SetEmployeePassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	if err := h.auth.SetEmployeePassword(c.Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_set"}})
}

// LoginEmployee handles POST /auth/employees/login.
func (h *AuthHandler) LoginEmployee(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return util.NewValidationError("email and password required", nil)
	}

	emp, token, exp, err := h.auth.LoginEmployee(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"employee": employeeResponse(emp),
		"auth":     dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

func adminResponse(a *domain.Admin) fiber.Map {
	return fiber.Map{
		"id":                a.ID,
		"name":              a.Name,
		"email":             a.Email,
		"phone":             a.Phone,
		"organization_id":   a.OrganizationID,
		"organization_name": a.OrganizationName,
		"verified":          a.Verified,
		"created_at":        a.CreatedAt,
	}
}

func employeeResponse(e *domain.Employee) fiber.Map {
	return fiber.Map{
		"id":                e.ID,
		"name":              e.Name,
		"email":             e.Email,
		"phone":             e.Phone,
		"organization_id":   e.OrganizationID,
		"organization_name": e.OrganizationName,
		"admin_id":          e.AdminID,
		"designation":       e.Designation,
		"department":        e.Department,
		"active":            e.Active,
		"created_at":        e.CreatedAt,
	}
}
