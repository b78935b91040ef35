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

// EmployeeInput carries the fields an admin provides when onboarding a rep.
type EmployeeInput struct {
	Name        string
	Email       string
	Phone       string
	Designation string
	Department  string
}

// summaryHistoryLimit caps the per-section record count in a field summary.
const summaryHistoryLimit = 200

// EmployeeDependencies collects the repositories EmployeeService works with.
type EmployeeDependencies struct {
	Employees  repository.EmployeeRepository
	Orgs       repository.OrganizationRepository
	Sales      repository.SaleRepository
	Attendance repository.AttendanceRepository
	Orders     repository.OrderRepository
	Meetings   repository.MeetingRepository
	Clients    repository.ClientRepository
	Dispatcher events.Dispatcher
}

// EmployeeService manages the field reps of one organization.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	orgs       repository.OrganizationRepository
	sales      repository.SaleRepository
	attendance repository.AttendanceRepository
	orders     repository.OrderRepository
	meetings   repository.MeetingRepository
	clients    repository.ClientRepository
	dispatcher events.Dispatcher
}

// NewEmployeeService builds the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	return &EmployeeService{
		employees:  deps.Employees,
		orgs:       deps.Orgs,
		sales:      deps.Sales,
		attendance: deps.Attendance,
		orders:     deps.Orders,
		meetings:   deps.Meetings,
		clients:    deps.Clients,
		dispatcher: deps.Dispatcher,
	}
}

// Create onboards a new employee under the admin's organization. The insert
// fails when the organization has reached its employee quota.
func (s *EmployeeService) Create(ctx context.Context, admin *domain.Admin, in EmployeeInput) (*domain.Employee, error) {
	if _, err := s.employees.GetByEmail(ctx, in.Email); err == nil {
		return nil, util.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	emp := &domain.Employee{
		ID:               util.NewEmployeeID(),
		Email:            in.Email,
		Name:             in.Name,
		Phone:            in.Phone,
		OrganizationID:   admin.OrganizationID,
		OrganizationName: admin.OrganizationName,
		AdminID:          admin.ID,
		Designation:      in.Designation,
		Department:       in.Department,
		Active:           true,
	}
	if err := s.employees.CreateWithinQuota(ctx, emp); err != nil {
		if errors.Is(err, repository.ErrEmployeeLimitReached) {
			return nil, util.NewValidationError("employee limit reached for organization", nil)
		}
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventEmployeeCreated,
		OrganizationID: admin.OrganizationID,
		Timestamp:      time.Now().UTC(),
		Payload: events.EmployeeCreatedPayload{
			EmployeeID: emp.ID,
			Email:      emp.Email,
			CreatedBy:  admin.ID,
		},
	})
	return emp, nil
}

// List returns every employee of the organization.
func (s *EmployeeService) List(ctx context.Context, orgID string) ([]domain.Employee, error) {
	return s.employees.ListByOrganization(ctx, orgID)
}

// Get returns one employee, scoped to the caller's organization.
func (s *EmployeeService) Get(ctx context.Context, orgID, employeeID string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, orgID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("employee not found or does not belong to your organization", nil)
		}
		return nil, err
	}
	return emp, nil
}

// SetActive toggles an employee's access without deleting their history.
func (s *EmployeeService) SetActive(ctx context.Context, orgID, employeeID string, active bool) (*domain.Employee, error) {
	emp, err := s.Get(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.employees.SetActive(ctx, emp.ID, active); err != nil {
		return nil, err
	}
	emp.Active = active
	return emp, nil
}

// QuotaUsage reports how many employee seats the organization has used.
func (s *EmployeeService) QuotaUsage(ctx context.Context, orgID string) (used, quota int, err error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return 0, 0, err
	}
	count, err := s.employees.CountByOrganization(ctx, orgID)
	if err != nil {
		return 0, 0, err
	}
	return count, org.EmployeeQuota, nil
}

// EmployeeSummary aggregates everything one rep has produced on the field.
type EmployeeSummary struct {
	Employee   *domain.Employee
	Sales      []domain.Sale
	Attendance []domain.Attendance
	Orders     []domain.Order
	Meetings   []domain.Meeting
	Clients    []domain.Client
}

// Summary returns the employee record together with their sales, attendance,
// orders, visits and the clients they onboarded.
func (s *EmployeeService) Summary(ctx context.Context, orgID, employeeID string) (*EmployeeSummary, error) {
	emp, err := s.Get(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByEmployee(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}
	attendance, err := s.attendance.ListByEmployee(ctx, employeeID, summaryHistoryLimit, 0)
	if err != nil {
		return nil, err
	}
	orders, _, err := s.orders.List(ctx, repository.OrderFilter{
		OrganizationID: orgID,
		EmployeeID:     &employeeID,
		Limit:          summaryHistoryLimit,
	})
	if err != nil {
		return nil, err
	}
	meetings, err := s.meetings.ListByEmployee(ctx, orgID, employeeID, summaryHistoryLimit, 0)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.ListByCreator(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}

	return &EmployeeSummary{
		Employee:   emp,
		Sales:      sales,
		Attendance: attendance,
		Orders:     orders,
		Meetings:   meetings,
		Clients:    clients,
	}, nil
}

// LastKnownLocation returns the most recent coordinates reported by the
// employee, from either a visit check-in or an attendance clock-in.
func (s *EmployeeService) LastKnownLocation(ctx context.Context, orgID, employeeID string) (*repository.EmployeeLocation, error) {
	if _, err := s.Get(ctx, orgID, employeeID); err != nil {
		return nil, err
	}
	loc, err := s.employees.LastKnownLocation(ctx, orgID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("no location recorded for employee", nil)
		}
		return nil, err
	}
	return loc, nil
}
