package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/events"
)

type employeeFixture struct {
	svc        *EmployeeService
	employees  *fakeEmployeeRepo
	orgs       *fakeOrgRepo
	sales      *fakeSaleRepo
	attendance *fakeAttendanceRepo
	orders     *fakeOrderRepo
	meetings   *fakeMeetingRepo
	clients    *fakeClientRepo
	admin      *domain.Admin
}

func newEmployeeFixture(t *testing.T, quota int) *employeeFixture {
	t.Helper()

	orgs := newFakeOrgRepo()
	org := &domain.Organization{ID: "ORG-TEST01", Name: "Acme Pharma", EmployeeQuota: quota}
	require.NoError(t, orgs.Create(context.Background(), org))

	employees := newFakeEmployeeRepo(orgs)
	sales := newFakeSaleRepo()
	attendance := newFakeAttendanceRepo()
	orders := newFakeOrderRepo(newFakeProductRepo(), sales)
	meetings := newFakeMeetingRepo()
	clients := newFakeClientRepo()
	return &employeeFixture{
		svc: NewEmployeeService(EmployeeDependencies{
			Employees:  employees,
			Orgs:       orgs,
			Sales:      sales,
			Attendance: attendance,
			Orders:     orders,
			Meetings:   meetings,
			Clients:    clients,
			Dispatcher: events.NewMemoryDispatcher(),
		}),
		employees:  employees,
		orgs:       orgs,
		sales:      sales,
		attendance: attendance,
		orders:     orders,
		meetings:   meetings,
		clients:    clients,
		admin: &domain.Admin{
			ID:               "ADM-TEST01",
			Email:            "admin@acme.test",
			Name:             "Priya Nair",
			OrganizationID:   org.ID,
			OrganizationName: org.Name,
			Verified:         true,
		},
	}
}

func TestEmployeeCreate(t *testing.T) {
	fx := newEmployeeFixture(t, 5)

	emp, err := fx.svc.Create(context.Background(), fx.admin, EmployeeInput{
		Name:        "Arjun Mehta",
		Email:       "arjun@acme.test",
		Designation: "Sales Representative",
		Department:  "North Zone",
	})
	require.NoError(t, err)
	assert.True(t, emp.Active)
	assert.Equal(t, fx.admin.ID, emp.AdminID)
	assert.Equal(t, fx.admin.OrganizationID, emp.OrganizationID)
}

func TestEmployeeCreateDuplicateEmail(t *testing.T) {
	fx := newEmployeeFixture(t, 5)
	ctx := context.Background()

	in := EmployeeInput{Name: "Arjun Mehta", Email: "arjun@acme.test"}
	_, err := fx.svc.Create(ctx, fx.admin, in)
	require.NoError(t, err)

	_, err = fx.svc.Create(ctx, fx.admin, in)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestEmployeeCreateQuotaExceeded(t *testing.T) {
	fx := newEmployeeFixture(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{
			Name:  fmt.Sprintf("Rep %d", i),
			Email: fmt.Sprintf("rep%d@acme.test", i),
		})
		require.NoError(t, err)
	}

	_, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{Name: "One Too Many", Email: "extra@acme.test"})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	used, quota, err := fx.svc.QuotaUsage(ctx, fx.admin.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, 2, used)
	assert.Equal(t, 2, quota)
}

func TestEmployeeGetCrossTenant(t *testing.T) {
	fx := newEmployeeFixture(t, 5)
	ctx := context.Background()

	emp, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{Name: "Arjun Mehta", Email: "arjun@acme.test"})
	require.NoError(t, err)

	// Another organization must not be able to read the record.
	_, err = fx.svc.Get(ctx, "ORG-OTHER", emp.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))

	got, err := fx.svc.Get(ctx, fx.admin.OrganizationID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)
}

func TestEmployeeSetActive(t *testing.T) {
	fx := newEmployeeFixture(t, 5)
	ctx := context.Background()

	emp, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{Name: "Arjun Mehta", Email: "arjun@acme.test"})
	require.NoError(t, err)

	got, err := fx.svc.SetActive(ctx, fx.admin.OrganizationID, emp.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = fx.svc.SetActive(ctx, fx.admin.OrganizationID, emp.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestEmployeeLastKnownLocationEmpty(t *testing.T) {
	fx := newEmployeeFixture(t, 5)
	ctx := context.Background()

	emp, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{Name: "Arjun Mehta", Email: "arjun@acme.test"})
	require.NoError(t, err)

	_, err = fx.svc.LastKnownLocation(ctx, fx.admin.OrganizationID, emp.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestEmployeeSummary(t *testing.T) {
	fx := newEmployeeFixture(t, 5)
	ctx := context.Background()
	orgID := fx.admin.OrganizationID

	emp, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{Name: "Arjun Mehta", Email: "arjun@acme.test"})
	require.NoError(t, err)
	other, err := fx.svc.Create(ctx, fx.admin, EmployeeInput{Name: "Sneha Rao", Email: "sneha@acme.test"})
	require.NoError(t, err)

	fx.sales.sales = append(fx.sales.sales,
		domain.Sale{ID: "SALE-000001", OrderID: "ORD-000001", OrganizationID: orgID, FacilityID: "FAC-000001", EmployeeID: &emp.ID, TotalAmount: 120.0},
		domain.Sale{ID: "SALE-000002", OrderID: "ORD-000002", OrganizationID: orgID, FacilityID: "FAC-000001", EmployeeID: &other.ID, TotalAmount: 80.0},
	)
	require.NoError(t, fx.attendance.Create(ctx, &domain.Attendance{
		ID:          "ATT-000001",
		EmployeeID:  emp.ID,
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ClockInTime: time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC),
	}))
	require.NoError(t, fx.orders.Create(ctx, &domain.Order{
		ID:             "ORD-000001",
		OrganizationID: orgID,
		FacilityID:     "FAC-000001",
		FacilityName:   "City Clinic",
		EmployeeID:     &emp.ID,
		Status:         domain.OrderStatusPending,
		TotalAmount:    120.0,
	}))
	require.NoError(t, fx.meetings.Create(ctx, &domain.Meeting{
		ID:             "VISIT-000001",
		OrganizationID: orgID,
		EmployeeID:     emp.ID,
		FacilityID:     "FAC-000001",
		FacilityName:   "City Clinic",
		ClientID:       "CLT-000001",
		CheckInTime:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Latitude:       28.6139,
		Longitude:      77.2090,
	}))
	require.NoError(t, fx.clients.Create(ctx, &domain.Client{
		ID:             "CLT-000001",
		OrganizationID: orgID,
		FacilityID:     "FAC-000001",
		Name:           "Dr. Kapoor",
		Mobile:         "9876500001",
		CreatedBy:      emp.ID,
		CreatedByRole:  domain.RoleEmployee,
	}))

	sum, err := fx.svc.Summary(ctx, orgID, emp.ID)
	require.NoError(t, err)

	assert.Equal(t, emp.ID, sum.Employee.ID)
	require.Len(t, sum.Sales, 1)
	assert.Equal(t, "SALE-000001", sum.Sales[0].ID)
	require.Len(t, sum.Attendance, 1)
	assert.Equal(t, "ATT-000001", sum.Attendance[0].ID)
	require.Len(t, sum.Orders, 1)
	assert.Equal(t, "ORD-000001", sum.Orders[0].ID)
	require.Len(t, sum.Meetings, 1)
	assert.Equal(t, "VISIT-000001", sum.Meetings[0].ID)
	require.Len(t, sum.Clients, 1)
	assert.Equal(t, "CLT-000001", sum.Clients[0].ID)
}

func TestEmployeeSummaryUnknownEmployee(t *testing.T) {
	fx := newEmployeeFixture(t, 5)

	_, err := fx.svc.Summary(context.Background(), fx.admin.OrganizationID, "EMP-MISSING")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
