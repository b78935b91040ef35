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

// MeetingsHandler exposes the employee's visit workflow.
type MeetingsHandler struct {
	auth     *service.AuthService
	meetings *service.MeetingService
}

// NewMeetingsHandler constructs handler.
func NewMeetingsHandler(authService *service.AuthService, meetingService *service.MeetingService) *MeetingsHandler {
	return &MeetingsHandler{auth: authService, meetings: meetingService}
}

func (h *MeetingsHandler) currentEmployee(c *fiber.Ctx) (*domain.Employee, error) {
	principal, err := auth.EmployeeFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.auth.CurrentEmployee(c.Context(), principal.OrganizationID, principal.EmployeeID)
}

// CheckIn handles POST /employee/meetings/check-in.
func (h *MeetingsHandler) CheckIn(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.FacilityID == "" || req.ClientID == "" {
		return util.NewValidationError("facility_id and client_id required", nil)
	}

	m, err := h.meetings.CheckIn(c.Context(), emp, req.FacilityID, req.ClientID, req.Latitude, req.Longitude)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": meetingResponse(m)})
}

// CheckOut handles POST /employee/meetings/:id/check-out.
func (h *MeetingsHandler) CheckOut(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	var req dto.CheckOutRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	in := service.CheckOutInput{
		MeetingType: domain.MeetingType(req.MeetingType),
		Notes:       req.Notes,
	}
	if req.Order != nil {
		orderIn := orderInput(*req.Order)
		in.Order = &orderIn
	}

	m, err := h.meetings.CheckOut(c.Context(), emp, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": meetingResponse(m)})
}

// Outcome handles PATCH /employee/meetings/:id/outcome.
func (h *MeetingsHandler) Outcome(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	var req dto.OutcomeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Outcome == "" {
		return util.NewValidationError("outcome required", nil)
	}

	in := service.OutcomeInput{
		Outcome: domain.MeetingOutcome(req.Outcome),
		Notes:   req.Notes,
	}
	if req.FollowUpDate != nil {
		followUp, err := time.Parse("2006-01-02", *req.FollowUpDate)
		if err != nil {
			return util.NewValidationError("follow_up_date must be YYYY-MM-DD", nil)
		}
		in.FollowUpDate = &followUp
	}

	m, err := h.meetings.RecordOutcome(c.Context(), emp, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": meetingResponse(m)})
}

// Active handles GET /employee/meetings/active.
func (h *MeetingsHandler) Active(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	m, err := h.meetings.Active(c.Context(), emp)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": meetingResponse(m)})
}

// History handles GET /employee/meetings.
func (h *MeetingsHandler) History(c *fiber.Ctx) error {
	emp, err := h.currentEmployee(c)
	if err != nil {
		return err
	}

	meetings, err := h.meetings.History(c.Context(), emp, c.QueryInt("limit", 10), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(meetings))
	for i := range meetings {
		items = append(items, meetingResponse(&meetings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func meetingResponse(m *domain.Meeting) fiber.Map {
	return fiber.Map{
		"id":                 m.ID,
		"employee_id":        m.EmployeeID,
		"facility_id":        m.FacilityID,
		"facility_name":      m.FacilityName,
		"client_id":          m.ClientID,
		"check_in_time":      m.CheckInTime,
		"check_out_time":     m.CheckOutTime,
		"time_spent_minutes": m.TimeSpentMinutes,
		"meeting_type":       m.MeetingType,
		"outcome":            m.Outcome,
		"notes":              m.Notes,
		"follow_up_date":     m.FollowUpDate,
		"order_id":           m.OrderID,
		"latitude":           m.Latitude,
		"longitude":          m.Longitude,
	}
}
