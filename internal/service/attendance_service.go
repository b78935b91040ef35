package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/events"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

// AttendanceService tracks daily clock-ins and work-from-home requests.
type AttendanceService struct {
	attendance repository.AttendanceRepository
	wfh        repository.WFHRepository
	dispatcher events.Dispatcher
}

// NewAttendanceService builds the service.
func NewAttendanceService(attendance repository.AttendanceRepository, wfh repository.WFHRepository, dispatcher events.Dispatcher) *AttendanceService {
	return &AttendanceService{attendance: attendance, wfh: wfh, dispatcher: dispatcher}
}

// workday truncates a timestamp to its UTC calendar date.
func workday(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClockIn records the start of the employee's working day. Only one clock-in
// per calendar day is allowed. The work-from-home flag is set automatically
// when the employee has an approved request for the day.
func (s *AttendanceService) ClockIn(ctx context.Context, emp *domain.Employee, lat, lng *float64) (*domain.Attendance, error) {
	now := time.Now().UTC()
	today := workday(now)

	if _, err := s.attendance.GetByEmployeeAndDate(ctx, emp.ID, today); err == nil {
		return nil, util.NewConflict("already clocked in today", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	wfhApproved := false
	if req, err := s.wfh.GetByEmployeeAndDate(ctx, emp.ID, today); err == nil {
		wfhApproved = req.Status == domain.WFHStatusApproved
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	a := &domain.Attendance{
		ID:           uuid.NewString(),
		EmployeeID:   emp.ID,
		Date:         today,
		ClockInTime:  now,
		WorkFromHome: wfhApproved,
		Latitude:     lat,
		Longitude:    lng,
	}
	if err := s.attendance.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ClockOut ends the working day. It fails when there is no open clock-in.
func (s *AttendanceService) ClockOut(ctx context.Context, emp *domain.Employee) (*domain.Attendance, error) {
	now := time.Now().UTC()
	today := workday(now)

	if err := s.attendance.SetClockOut(ctx, emp.ID, today, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewValidationError("no open clock-in for today", nil)
		}
		return nil, err
	}
	return s.attendance.GetByEmployeeAndDate(ctx, emp.ID, today)
}

// Today returns the employee's attendance record for the current day.
func (s *AttendanceService) Today(ctx context.Context, emp *domain.Employee) (*domain.Attendance, error) {
	a, err := s.attendance.GetByEmployeeAndDate(ctx, emp.ID, workday(time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("no attendance recorded today", nil)
		}
		return nil, err
	}
	return a, nil
}

// History lists the employee's attendance records, newest first.
func (s *AttendanceService) History(ctx context.Context, emp *domain.Employee, limit, offset int) ([]domain.Attendance, error) {
	return s.attendance.ListByEmployee(ctx, emp.ID, limit, offset)
}

// RequestWFH files a work-from-home request for a future date.
func (s *AttendanceService) RequestWFH(ctx context.Context, emp *domain.Employee, date time.Time, reason string) (*domain.WFHRequest, error) {
	day := workday(date)
	if day.Before(workday(time.Now())) {
		return nil, util.NewValidationError("cannot request work from home for a past date", nil)
	}

	if existing, err := s.wfh.GetByEmployeeAndDate(ctx, emp.ID, day); err == nil {
		if existing.Status != domain.WFHStatusRejected {
			return nil, util.NewConflict("request already filed for this date", nil)
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	req := &domain.WFHRequest{
		ID:             uuid.NewString(),
		OrganizationID: emp.OrganizationID,
		EmployeeID:     emp.ID,
		Date:           day,
		Reason:         reason,
		Status:         domain.WFHStatusPending,
	}
	if err := s.wfh.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListWFHRequests returns the organization's requests for admin review.
func (s *AttendanceService) ListWFHRequests(ctx context.Context, orgID string, status *domain.WFHStatus, limit, offset int) ([]domain.WFHRequest, error) {
	return s.wfh.ListByOrganization(ctx, orgID, status, limit, offset)
}

// DecideWFH approves or rejects a pending request.
func (s *AttendanceService) DecideWFH(ctx context.Context, admin *domain.Admin, requestID string, approve bool) error {
	status := domain.WFHStatusRejected
	if approve {
		status = domain.WFHStatusApproved
	}

	now := time.Now().UTC()
	if err := s.wfh.Decide(ctx, admin.OrganizationID, requestID, status, admin.ID, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("pending request", nil)
		}
		return err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventWFHDecided,
		OrganizationID: admin.OrganizationID,
		Timestamp:      now,
		Payload: events.WFHDecidedPayload{
			RequestID: requestID,
			Status:    status,
			DecidedBy: admin.ID,
		},
	})
	return nil
}
