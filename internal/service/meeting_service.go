package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
	"github.com/spec-kit/fieldforce-crm/pkg/util"
)

const (
	// checkInRadiusMeters is how close the employee must be to the facility.
	checkInRadiusMeters = 100.0
	// minMeetingDuration is the shortest visit that counts.
	minMeetingDuration = 10 * time.Minute
)

// CheckOutInput carries the fields captured when ending a visit.
type CheckOutInput struct {
	MeetingType domain.MeetingType
	Notes       *string
	Order       *OrderInput
}

// OutcomeInput carries the post-visit result.
type OutcomeInput struct {
	Outcome      domain.MeetingOutcome
	Notes        *string
	FollowUpDate *time.Time
}

// MeetingService manages geofenced visit check-ins and check-outs.
type MeetingService struct {
	meetings   repository.MeetingRepository
	facilities repository.FacilityRepository
	clients    repository.ClientRepository
	orders     *OrderService
}

// NewMeetingService builds the service.
func NewMeetingService(meetings repository.MeetingRepository, facilities repository.FacilityRepository, clients repository.ClientRepository, orders *OrderService) *MeetingService {
	return &MeetingService{
		meetings:   meetings,
		facilities: facilities,
		clients:    clients,
		orders:     orders,
	}
}

// CheckIn starts a visit. The employee must be within the check-in radius of
// the facility and must not have another visit in progress.
func (s *MeetingService) CheckIn(ctx context.Context, emp *domain.Employee, facilityID, clientID string, lat, lng float64) (*domain.Meeting, error) {
	facility, err := s.facilities.GetByID(ctx, emp.OrganizationID, facilityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("facility", nil)
		}
		return nil, err
	}
	if facility.Status != domain.FacilityStatusActive {
		return nil, util.NewValidationError("facility is inactive", nil)
	}

	client, err := s.clients.GetByID(ctx, emp.OrganizationID, clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("client", nil)
		}
		return nil, err
	}
	if client.FacilityID != facility.ID {
		return nil, util.NewValidationError("client does not belong to this facility", nil)
	}

	if _, err := s.meetings.GetActiveByEmployee(ctx, emp.OrganizationID, emp.ID); err == nil {
		return nil, util.NewConflict("another visit is already in progress", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if facility.Latitude != nil && facility.Longitude != nil {
		distance := util.HaversineMeters(lat, lng, *facility.Latitude, *facility.Longitude)
		if distance > checkInRadiusMeters {
			return nil, util.NewForbidden("too far from facility to check in")
		}
	}

	m := &domain.Meeting{
		ID:             util.NewVisitID(),
		OrganizationID: emp.OrganizationID,
		EmployeeID:     emp.ID,
		FacilityID:     facility.ID,
		FacilityName:   facility.Name,
		ClientID:       client.ID,
		CheckInTime:    time.Now().UTC(),
		Latitude:       lat,
		Longitude:      lng,
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CheckOut ends the employee's active visit. Visits shorter than the minimum
// duration are refused. An optional order is placed as prospective and linked
// to the visit.
func (s *MeetingService) CheckOut(ctx context.Context, emp *domain.Employee, meetingID string, in CheckOutInput) (*domain.Meeting, error) {
	m, err := s.getOwned(ctx, emp, meetingID)
	if err != nil {
		return nil, err
	}
	if m.CheckOutTime != nil {
		return nil, util.NewValidationError("visit already checked out", nil)
	}

	now := time.Now().UTC()
	elapsed := now.Sub(m.CheckInTime)
	if elapsed < minMeetingDuration {
		return nil, util.NewValidationError("visit too short to check out", map[string]any{
			"minimum_minutes": int(minMeetingDuration.Minutes()),
		})
	}

	if in.Order != nil {
		in.Order.FacilityID = m.FacilityID
		order, err := s.orders.CreateByEmployee(ctx, emp, *in.Order, &m.ID)
		if err != nil {
			return nil, err
		}
		m.OrderID = &order.ID
	}

	minutes := int(elapsed.Minutes())
	m.CheckOutTime = &now
	m.TimeSpentMinutes = &minutes
	if in.MeetingType != "" {
		m.MeetingType = &in.MeetingType
	}
	if in.Notes != nil {
		m.Notes = in.Notes
	}
	if err := s.meetings.CheckOut(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordOutcome sets the result of a finished visit.
func (s *MeetingService) RecordOutcome(ctx context.Context, emp *domain.Employee, meetingID string, in OutcomeInput) (*domain.Meeting, error) {
	m, err := s.getOwned(ctx, emp, meetingID)
	if err != nil {
		return nil, err
	}
	if m.CheckOutTime == nil {
		return nil, util.NewValidationError("visit is still in progress", nil)
	}

	m.Outcome = &in.Outcome
	if in.Notes != nil {
		m.Notes = in.Notes
	}
	m.FollowUpDate = in.FollowUpDate
	if err := s.meetings.UpdateOutcome(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Active returns the employee's visit in progress, if any.
func (s *MeetingService) Active(ctx context.Context, emp *domain.Employee) (*domain.Meeting, error) {
	m, err := s.meetings.GetActiveByEmployee(ctx, emp.OrganizationID, emp.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("no visit in progress", nil)
		}
		return nil, err
	}
	return m, nil
}

// History lists the employee's past visits, newest first.
func (s *MeetingService) History(ctx context.Context, emp *domain.Employee, limit, offset int) ([]domain.Meeting, error) {
	return s.meetings.ListByEmployee(ctx, emp.OrganizationID, emp.ID, limit, offset)
}

func (s *MeetingService) getOwned(ctx context.Context, emp *domain.Employee, meetingID string) (*domain.Meeting, error) {
	m, err := s.meetings.GetByID(ctx, emp.OrganizationID, meetingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("meeting", nil)
		}
		return nil, err
	}
	if m.EmployeeID != emp.ID {
		return nil, util.NewForbidden("meeting belongs to another employee")
	}
	return m, nil
}
