package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/events"
)

type attendanceFixture struct {
	svc        *AttendanceService
	attendance *fakeAttendanceRepo
	wfh        *fakeWFHRepo
	dispatcher events.Dispatcher
	employee   *domain.Employee
	admin      *domain.Admin
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()

	fx := &attendanceFixture{
		attendance: newFakeAttendanceRepo(),
		wfh:        newFakeWFHRepo(),
		dispatcher: events.NewMemoryDispatcher(),
		employee: &domain.Employee{
			ID:             "EMP-TEST01",
			Name:           "Arjun Mehta",
			OrganizationID: "ORG-TEST01",
			Active:         true,
		},
		admin: &domain.Admin{
			ID:             "ADM-TEST01",
			Name:           "Priya Nair",
			OrganizationID: "ORG-TEST01",
		},
	}
	fx.svc = NewAttendanceService(fx.attendance, fx.wfh, fx.dispatcher)
	return fx
}

func TestClockInOnce(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	lat, lng := 28.6139, 77.2090
	a, err := fx.svc.ClockIn(ctx, fx.employee, &lat, &lng)
	require.NoError(t, err)
	assert.False(t, a.WorkFromHome)
	assert.Nil(t, a.ClockOutTime)
	require.NotNil(t, a.Latitude)
	assert.Equal(t, lat, *a.Latitude)

	_, err = fx.svc.ClockIn(ctx, fx.employee, &lat, &lng)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestClockInWithApprovedWFH(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	req, err := fx.svc.RequestWFH(ctx, fx.employee, time.Now().UTC(), "internet installation at home")
	require.NoError(t, err)
	require.NoError(t, fx.svc.DecideWFH(ctx, fx.admin, req.ID, true))

	a, err := fx.svc.ClockIn(ctx, fx.employee, nil, nil)
	require.NoError(t, err)
	assert.True(t, a.WorkFromHome)
	assert.Nil(t, a.Latitude)
}

func TestClockInWithPendingWFH(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := fx.svc.RequestWFH(ctx, fx.employee, time.Now().UTC(), "waiting on approval")
	require.NoError(t, err)

	// Pending requests do not flag the day as work-from-home.
	a, err := fx.svc.ClockIn(ctx, fx.employee, nil, nil)
	require.NoError(t, err)
	assert.False(t, a.WorkFromHome)
}

func TestClockOut(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	// Clock-out without an open day fails.
	_, err := fx.svc.ClockOut(ctx, fx.employee)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = fx.svc.ClockIn(ctx, fx.employee, nil, nil)
	require.NoError(t, err)

	a, err := fx.svc.ClockOut(ctx, fx.employee)
	require.NoError(t, err)
	require.NotNil(t, a.ClockOutTime)

	// The day is closed; a second clock-out fails.
	_, err = fx.svc.ClockOut(ctx, fx.employee)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestTodayWithoutRecord(t *testing.T) {
	fx := newAttendanceFixture(t)
	_, err := fx.svc.Today(context.Background(), fx.employee)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestRequestWFHPastDate(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, err := fx.svc.RequestWFH(context.Background(), fx.employee, time.Now().UTC().AddDate(0, 0, -1), "too late")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestRequestWFHDuplicateDate(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()
	date := time.Now().UTC().AddDate(0, 0, 2)

	_, err := fx.svc.RequestWFH(ctx, fx.employee, date, "first request")
	require.NoError(t, err)

	_, err = fx.svc.RequestWFH(ctx, fx.employee, date, "second request")
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestRequestWFHAfterRejection(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()
	date := time.Now().UTC().AddDate(0, 0, 2)

	req, err := fx.svc.RequestWFH(ctx, fx.employee, date, "first request")
	require.NoError(t, err)
	require.NoError(t, fx.svc.DecideWFH(ctx, fx.admin, req.ID, false))

	// A rejected request may be filed again for the same date.
	_, err = fx.svc.RequestWFH(ctx, fx.employee, date, "trying again")
	assert.NoError(t, err)
}

func TestDecideWFH(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	var decisions []events.WFHDecidedPayload
	fx.dispatcher.Subscribe(events.EventWFHDecided, func(ctx context.Context, e events.Event) error {
		decisions = append(decisions, e.Payload.(events.WFHDecidedPayload))
		return nil
	})

	req, err := fx.svc.RequestWFH(ctx, fx.employee, time.Now().UTC().AddDate(0, 0, 1), "family function")
	require.NoError(t, err)

	require.NoError(t, fx.svc.DecideWFH(ctx, fx.admin, req.ID, true))

	status := domain.WFHStatusApproved
	list, err := fx.svc.ListWFHRequests(ctx, fx.admin.OrganizationID, &status, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].DecidedBy)
	assert.Equal(t, fx.admin.ID, *list[0].DecidedBy)

	require.Len(t, decisions, 1)
	assert.Equal(t, req.ID, decisions[0].RequestID)
	assert.Equal(t, domain.WFHStatusApproved, decisions[0].Status)

	// Decisions are final.
	err = fx.svc.DecideWFH(ctx, fx.admin, req.ID, false)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestDecideWFHCrossTenant(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	req, err := fx.svc.RequestWFH(ctx, fx.employee, time.Now().UTC().AddDate(0, 0, 1), "errand")
	require.NoError(t, err)

	foreign := &domain.Admin{ID: "ADM-OTHER", OrganizationID: "ORG-OTHER"}
	err = fx.svc.DecideWFH(ctx, foreign, req.ID, true)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
