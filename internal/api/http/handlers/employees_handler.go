package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/api/dto"
	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/service"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// EmployeesHandler exposes the admin's employee management endpoints.
type EmployeesHandler struct {
	auth      *service.AuthService
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(authService *service.AuthService, employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{auth: authService, employees: employeeService}
}

// Create handles POST /admin/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}
	admin, err := h.auth.CurrentAdmin(c.Context(), principal.AdminID)
	if err != nil {
		return err
	}

	var req dto.EmployeeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" {
		return util.NewValidationError("name and email required", nil)
	}

	emp, err := h.employees.Create(c.Context(), admin, service.EmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Designation: req.Designation,
		Department:  req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employeeResponse(emp)})
}

// List handles GET /admin/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	emps, err := h.employees.List(c.Context(), principal.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(emps))
	for i := range emps {
		items = append(items, employeeResponse(&emps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /admin/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	emp, err := h.employees.Get(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(emp)})
}

// SetActive handles PATCH /admin/employees/:id/active.
func (h *EmployeesHandler) SetActive(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var req dto.EmployeeActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	emp, err := h.employees.SetActive(c.Context(), principal.OrganizationID, c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(emp)})
}

// Quota handles GET /admin/employees/quota.
func (h *EmployeesHandler) Quota(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	used, quota, err := h.employees.QuotaUsage(c.Context(), principal.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"used":      used,
		"quota":     quota,
		"remaining": quota - used,
	}})
}

// Location handles GET /admin/employees/:id/location.
func (h *EmployeesHandler) Location(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	loc, err := h.employees.LastKnownLocation(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"employee_id": loc.EmployeeID,
		"latitude":    loc.Latitude,
		"longitude":   loc.Longitude,
		"recorded_at": loc.RecordedAt,
		"source":      loc.Source,
	}})
}

// Profile handles GET /employee/profile. The creating admin's profile is
// included best effort; a since-deleted admin does not fail the request.
func (h *EmployeesHandler) Profile(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}

	emp, err := h.auth.CurrentEmployee(c.Context(), principal.OrganizationID, principal.EmployeeID)
	if err != nil {
		return err
	}
	data := fiber.Map{"employee": employeeResponse(emp)}
	if admin, err := h.auth.CurrentAdmin(c.Context(), emp.AdminID); err == nil {
		data["admin"] = adminResponse(admin)
	}
	return c.JSON(fiber.Map{"data": data})
}

// Summary handles GET /employee/summary.
func (h *EmployeesHandler) Summary(c *fiber.Ctx) error {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return err
	}

	sum, err := h.employees.Summary(c.Context(), principal.OrganizationID, principal.EmployeeID)
	if err != nil {
		return err
	}

	sales := make([]fiber.Map, 0, len(sum.Sales))
	for i := range sum.Sales {
		sales = append(sales, saleResponse(&sum.Sales[i]))
	}
	attendance := make([]fiber.Map, 0, len(sum.Attendance))
	for i := range sum.Attendance {
		attendance = append(attendance, attendanceResponse(&sum.Attendance[i]))
	}
	orders := make([]fiber.Map, 0, len(sum.Orders))
	for i := range sum.Orders {
		orders = append(orders, orderResponse(&sum.Orders[i]))
	}
	meetings := make([]fiber.Map, 0, len(sum.Meetings))
	for i := range sum.Meetings {
		meetings = append(meetings, meetingResponse(&sum.Meetings[i]))
	}
	clients := make([]fiber.Map, 0, len(sum.Clients))
	for i := range sum.Clients {
		clients = append(clients, clientResponse(&sum.Clients[i]))
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"employee":   employeeResponse(sum.Employee),
		"sales":      sales,
		"attendance": attendance,
		"orders":     orders,
		"meetings":   meetings,
		"clients":    clients,
	}})
}
