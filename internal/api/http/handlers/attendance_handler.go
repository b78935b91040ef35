package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldforce-crm/internal/api/dto"
	"github.com/spec-kit/fieldforce-crm/internal/auth"
	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/service"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// AttendanceHandler exposes clock-in tracking and the work-from-home flow.
type AttendanceHandler struct {
	auth       *service.AuthService
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(authService *service.AuthService, attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{auth: authService, attendance: attendanceService}
}

func (h *AttendanceHandler) currentEmployee(c *fiber.Ctx) (*domain.Employee, error) {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.auth.CurrentEmployee(c.Context(), principal.OrganizationID, principal.EmployeeID)
}

// ClockIn handles POST /employee/attendance/clock-in.
func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	var req dto.ClockInRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	a, err := h.attendance.ClockIn(c.Context(), emp, req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attendanceResponse(a)})
}

// ClockOut handles POST /employee/attendance/clock-out.
func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	a, err := h.attendance.ClockOut(c.Context(), emp)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponse(a)})
}

// Today handles GET /employee/attendance/today.
func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	a, err := h.attendance.Today(c.Context(), emp)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponse(a)})
}

// History handles GET /employee/attendance.
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	records, err := h.attendance.History(c.Context(), emp, c.QueryInt("limit", 30), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(records))
	for i := range records {
		items = append(items, attendanceResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RequestWFH handles POST /employee/wfh.
func (h *AttendanceHandler) RequestWFH(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	var req dto.WFHRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return util.NewValidationError("date must be YYYY-MM-DD", nil)
	}

	wfhReq, err := h.attendance.RequestWFH(c.Context(), emp, date, req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": wfhResponse(wfhReq)})
}

// ListWFH handles GET /admin/wfh.
func (h *AttendanceHandler) ListWFH(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}

	var status *domain.WFHStatus
	if v := c.Query("status"); v != "" {
		st := domain.WFHStatus(v)
		status = &st
	}

	requests, err := h.attendance.ListWFHRequests(c.Context(), principal.OrganizationID, status,
		c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		items = append(items, wfhResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DecideWFH handles PATCH /admin/wfh/:id.
func (h *AttendanceHandler) DecideWFH(c *fiber.Ctx) error {
	principal, err := auth.AdminFromContext(c)
	if err != nil {
		return err
	}
	admin, err := h.auth.CurrentAdmin(c.Context(), principal.AdminID)
	if err != nil {
		return err
	}

	var req dto.WFHDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	if err := h.attendance.DecideWFH(c.Context(), admin, c.Params("id"), req.Approve); err != nil {
		return err
	}
	status := "rejected"
	if req.Approve {
		status = "approved"
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": status}})
}

func attendanceResponse(a *domain.Attendance) fiber.Map {
	return fiber.Map{
		"id":             a.ID,
		"employee_id":    a.EmployeeID,
		"date":           a.Date.Format("2006-01-02"),
		"clock_in_time":  a.ClockInTime,
		"clock_out_time": a.ClockOutTime,
		"work_from_home": a.WorkFromHome,
		"latitude":       a.Latitude,
		"longitude":      a.Longitude,
	}
}

func wfhResponse(r *domain.WFHRequest) fiber.Map {
	return fiber.Map{
		"id":          r.ID,
		"employee_id": r.EmployeeID,
		"date":        r.Date.Format("2006-01-02"),
		"reason":      r.Reason,
		"status":      r.Status,
		"decided_by":  r.DecidedBy,
		"decided_at":  r.DecidedAt,
		"created_at":  r.CreatedAt,
	}
}
