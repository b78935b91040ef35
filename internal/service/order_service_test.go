package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/events"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
)

type orderFixture struct {
	svc        *OrderService
	orders     *fakeOrderRepo
	products   *fakeProductRepo
	facilities *fakeFacilityRepo
	sales      *fakeSaleRepo
	dispatcher events.Dispatcher
	admin      *domain.Admin
	employee   *domain.Employee
	facility   *domain.Facility
	product    *domain.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	ctx := context.Background()

	fx := &orderFixture{
		products:   newFakeProductRepo(),
		facilities: newFakeFacilityRepo(),
		sales:      newFakeSaleRepo(),
		dispatcher: events.NewMemoryDispatcher(),
		admin: &domain.Admin{
			ID:               "ADM-TEST01",
			Name:             "Priya Nair",
			OrganizationID:   "ORG-TEST01",
			OrganizationName: "Acme Pharma",
		},
		employee: &domain.Employee{
			ID:             "EMP-TEST01",
			Name:           "Arjun Mehta",
			OrganizationID: "ORG-TEST01",
			Active:         true,
		},
	}
	fx.orders = newFakeOrderRepo(fx.products, fx.sales)
	fx.svc = NewOrderService(fx.orders, fx.products, fx.facilities, fx.sales, fx.dispatcher)

	fx.facility = &domain.Facility{
		ID:             "FAC-TEST01",
		OrganizationID: "ORG-TEST01",
		Name:           "City Hospital",
		Type:           domain.FacilityTypeHospital,
		Status:         domain.FacilityStatusActive,
	}
	require.NoError(t, fx.facilities.Create(ctx, fx.facility))

	fx.product = &domain.Product{
		ID:             "PROD-TEST01",
		OrganizationID: "ORG-TEST01",
		Name:           "Paracetamol 500mg",
		Category:       "Analgesics",
		Price:          2.50,
		Stock:          100,
		Active:         true,
	}
	require.NoError(t, fx.products.Create(ctx, fx.product))
	return fx
}

func (fx *orderFixture) orderInput(qty int) OrderInput {
	return OrderInput{
		FacilityID: fx.facility.ID,
		Lines:      []OrderLine{{ProductID: fx.product.ID, Quantity: qty}},
	}
}

func TestCreateByAdminGoesPending(t *testing.T) {
	fx := newOrderFixture(t)

	order, err := fx.svc.CreateByAdmin(context.Background(), fx.admin, fx.orderInput(10))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 25.0, order.TotalAmount)
	assert.Equal(t, fx.facility.Name, order.FacilityName)
	require.NotNil(t, order.AdminID)
	assert.Equal(t, fx.admin.ID, *order.AdminID)
	assert.Nil(t, order.EmployeeID)
}

func TestCreateByEmployeeGoesProspective(t *testing.T) {
	fx := newOrderFixture(t)

	meetingID := "VISIT-TEST01"
	order, err := fx.svc.CreateByEmployee(context.Background(), fx.employee, fx.orderInput(4), &meetingID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProspective, order.Status)
	require.NotNil(t, order.EmployeeID)
	assert.Equal(t, fx.employee.ID, *order.EmployeeID)
	require.NotNil(t, order.MeetingID)
	assert.Equal(t, meetingID, *order.MeetingID)
}

func TestCreateOrderEmptyLines(t *testing.T) {
	fx := newOrderFixture(t)

	_, err := fx.svc.CreateByAdmin(context.Background(), fx.admin, OrderInput{FacilityID: fx.facility.ID})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.products.SoftDelete(ctx, "ORG-TEST01", fx.product.ID))

	_, err := fx.svc.CreateByAdmin(ctx, fx.admin, fx.orderInput(1))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestCreateOrderUnknownFacility(t *testing.T) {
	fx := newOrderFixture(t)
	in := fx.orderInput(1)
	in.FacilityID = "FAC-MISSING"

	_, err := fx.svc.CreateByAdmin(context.Background(), fx.admin, in)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestDecideCompleteRecordsSaleAndStock(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	var completed []events.OrderCompletedPayload
	fx.dispatcher.Subscribe(events.EventOrderCompleted, func(ctx context.Context, e events.Event) error {
		completed = append(completed, e.Payload.(events.OrderCompletedPayload))
		return nil
	})

	order, err := fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(40), nil)
	require.NoError(t, err)

	decided, err := fx.svc.Decide(ctx, "ORG-TEST01", order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, decided.Status)

	// Stock decremented and sale recorded.
	p, err := fx.products.GetByID(ctx, "ORG-TEST01", fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, p.Stock)

	sales, err := fx.svc.SalesByEmployee(ctx, "ORG-TEST01", fx.employee.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, order.ID, sales[0].OrderID)
	assert.Equal(t, 100.0, sales[0].TotalAmount)

	require.Len(t, completed, 1)
	assert.Equal(t, order.ID, completed[0].OrderID)
	assert.Equal(t, fx.employee.ID, completed[0].EmployeeID)
}

func TestDecideInsufficientStock(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	order, err := fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(150), nil)
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, "ORG-TEST01", order.ID, domain.OrderStatusCompleted)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// Nothing applied: stock unchanged, no sale, order still open.
	p, err := fx.products.GetByID(ctx, "ORG-TEST01", fx.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Stock)
	assert.Empty(t, fx.sales.sales)
}

func TestDecideReject(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	order, err := fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(5), nil)
	require.NoError(t, err)

	decided, err := fx.svc.Decide(ctx, "ORG-TEST01", order.ID, domain.OrderStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusRejected, decided.Status)

	// A decided order cannot be decided again.
	_, err = fx.svc.Decide(ctx, "ORG-TEST01", order.ID, domain.OrderStatusCompleted)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestDecideInvalidStatus(t *testing.T) {
	fx := newOrderFixture(t)
	_, err := fx.svc.Decide(context.Background(), "ORG-TEST01", "ORD-ANY", domain.OrderStatusPending)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestUpdateByEmployeeRepricesAndPromotes(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	order, err := fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(2), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProspective, order.Status)

	updated, err := fx.svc.UpdateByEmployee(ctx, fx.employee, order.ID, OrderInput{
		Lines: []OrderLine{{ProductID: fx.product.ID, Quantity: 8}},
		Notes: "revised after call",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, updated.Status)
	assert.Equal(t, 20.0, updated.TotalAmount)
	assert.Equal(t, "revised after call", updated.Notes)
}

func TestUpdateByEmployeeNotOwner(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	order, err := fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(2), nil)
	require.NoError(t, err)

	other := &domain.Employee{ID: "EMP-OTHER", OrganizationID: "ORG-TEST01", Active: true}
	_, err = fx.svc.UpdateByEmployee(ctx, other, order.ID, OrderInput{Notes: "mine now"})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUpdateByEmployeeAfterDecision(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	order, err := fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(2), nil)
	require.NoError(t, err)
	_, err = fx.svc.Decide(ctx, "ORG-TEST01", order.ID, domain.OrderStatusRejected)
	require.NoError(t, err)

	_, err = fx.svc.UpdateByEmployee(ctx, fx.employee, order.ID, OrderInput{Notes: "too late"})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestListScopedByEmployee(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	_, err := fx.svc.CreateByAdmin(ctx, fx.admin, fx.orderInput(1))
	require.NoError(t, err)
	_, err = fx.svc.CreateByEmployee(ctx, fx.employee, fx.orderInput(1), nil)
	require.NoError(t, err)

	all, total, err := fx.svc.List(ctx, repository.OrderFilter{OrganizationID: "ORG-TEST01"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	mine, total, err := fx.svc.List(ctx, repository.OrderFilter{
		OrganizationID: "ORG-TEST01",
		EmployeeID:     &fx.employee.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.employee.ID, *mine[0].EmployeeID)
}

func TestGetCrossTenantOrder(t *testing.T) {
	fx := newOrderFixture(t)
	ctx := context.Background()

	order, err := fx.svc.CreateByAdmin(ctx, fx.admin, fx.orderInput(1))
	require.NoError(t, err)

	_, err = fx.svc.Get(ctx, "ORG-OTHER", order.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
