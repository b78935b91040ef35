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

// OrderLine is one requested product with quantity.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// OrderInput carries the fields captured when placing an order.
type OrderInput struct {
	FacilityID string
	Lines      []OrderLine
	Notes      string
}

// OrderService manages the order lifecycle and sale recording.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	facilities repository.FacilityRepository
	sales      repository.SaleRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, facilities repository.FacilityRepository, sales repository.SaleRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{
		orders:     orders,
		products:   products,
		facilities: facilities,
		sales:      sales,
		dispatcher: dispatcher,
	}
}

// buildItems prices the requested lines against the current catalog.
func (s *OrderService) buildItems(ctx context.Context, orgID string, lines []OrderLine) ([]domain.OrderItem, float64, error) {
	if len(lines) == 0 {
		return nil, 0, util.NewValidationError("order must contain at least one item", nil)
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, util.NewValidationError("quantity must be positive", map[string]any{"product_id": line.ProductID})
		}
		p, err := s.products.GetByID(ctx, orgID, line.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, 0, util.NewNotFound("product", map[string]any{"product_id": line.ProductID})
			}
			return nil, 0, err
		}
		if !p.Active {
			return nil, 0, util.NewValidationError("product is no longer available", map[string]any{"product_id": line.ProductID})
		}
		lineTotal := p.Price * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     p.Price,
			Total:     lineTotal,
		})
		total += lineTotal
	}
	return items, total, nil
}

func (s *OrderService) facilityFor(ctx context.Context, orgID, facilityID string) (*domain.Facility, error) {
	f, err := s.facilities.GetByID(ctx, orgID, facilityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("facility", nil)
		}
		return nil, err
	}
	return f, nil
}

// CreateByAdmin places an order that goes straight to pending.
func (s *OrderService) CreateByAdmin(ctx context.Context, admin *domain.Admin, in OrderInput) (*domain.Order, error) {
	facility, err := s.facilityFor(ctx, admin.OrganizationID, in.FacilityID)
	if err != nil {
		return nil, err
	}
	items, total, err := s.buildItems(ctx, admin.OrganizationID, in.Lines)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:             util.NewOrderID(),
		OrganizationID: admin.OrganizationID,
		FacilityID:     facility.ID,
		FacilityName:   facility.Name,
		AdminID:        &admin.ID,
		Items:          items,
		Notes:          in.Notes,
		TotalAmount:    total,
		Status:         domain.OrderStatusPending,
		CreatedByName:  admin.Name,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CreateByEmployee places a prospective order, typically during a visit.
func (s *OrderService) CreateByEmployee(ctx context.Context, emp *domain.Employee, in OrderInput, meetingID *string) (*domain.Order, error) {
	facility, err := s.facilityFor(ctx, emp.OrganizationID, in.FacilityID)
	if err != nil {
		return nil, err
	}
	items, total, err := s.buildItems(ctx, emp.OrganizationID, in.Lines)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:             util.NewOrderID(),
		OrganizationID: emp.OrganizationID,
		FacilityID:     facility.ID,
		FacilityName:   facility.Name,
		EmployeeID:     &emp.ID,
		MeetingID:      meetingID,
		Items:          items,
		Notes:          in.Notes,
		TotalAmount:    total,
		Status:         domain.OrderStatusProspective,
		CreatedByName:  emp.Name,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns one order scoped to the organization.
func (s *OrderService) Get(ctx context.Context, orgID, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("order", nil)
		}
		return nil, err
	}
	return order, nil
}

// List returns orders matching the filter plus the unpaginated total.
func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	return s.orders.List(ctx, filter)
}

// UpdateByEmployee lets the owning employee revise items and notes while the
// order has not been decided. The revision promotes a prospective order to
// pending for admin review.
func (s *OrderService) UpdateByEmployee(ctx context.Context, emp *domain.Employee, orderID string, in OrderInput) (*domain.Order, error) {
	order, err := s.Get(ctx, emp.OrganizationID, orderID)
	if err != nil {
		return nil, err
	}
	if order.EmployeeID == nil || *order.EmployeeID != emp.ID {
		return nil, util.NewForbidden("order belongs to another employee")
	}
	if order.Status != domain.OrderStatusProspective && order.Status != domain.OrderStatusPending {
		return nil, util.NewValidationError("order can no longer be modified", nil)
	}

	if len(in.Lines) > 0 {
		items, total, err := s.buildItems(ctx, emp.OrganizationID, in.Lines)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.TotalAmount = total
	}
	if in.Notes != "" {
		order.Notes = in.Notes
	}
	order.Status = domain.OrderStatusPending

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Decide moves a pending order to completed or rejected. Completion records
// the sale and decrements stock atomically; insufficient stock rejects the
// decision without partial effects.
func (s *OrderService) Decide(ctx context.Context, orgID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if status != domain.OrderStatusCompleted && status != domain.OrderStatusRejected {
		return nil, util.NewValidationError("status must be completed or rejected", nil)
	}

	order, err := s.Get(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderStatusCompleted {
		return nil, util.NewValidationError("order already completed", nil)
	}
	if order.Status == domain.OrderStatusRejected {
		return nil, util.NewValidationError("order already rejected", nil)
	}

	if status == domain.OrderStatusRejected {
		if err := s.orders.UpdateStatus(ctx, orgID, orderID, status); err != nil {
			return nil, err
		}
		order.Status = status
		return order, nil
	}

	sale := &domain.Sale{
		ID:             util.NewSaleID(),
		OrderID:        order.ID,
		OrganizationID: order.OrganizationID,
		FacilityID:     order.FacilityID,
		EmployeeID:     order.EmployeeID,
		AdminID:        order.AdminID,
		Items:          order.Items,
		TotalAmount:    order.TotalAmount,
	}
	if err := s.orders.Complete(ctx, order, sale); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, util.NewValidationError("insufficient stock to complete order", nil)
		}
		return nil, err
	}
	order.Status = domain.OrderStatusCompleted

	employeeID := ""
	if order.EmployeeID != nil {
		employeeID = *order.EmployeeID
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventOrderCompleted,
		OrganizationID: order.OrganizationID,
		Timestamp:      time.Now().UTC(),
		Payload: events.OrderCompletedPayload{
			OrderID:     order.ID,
			SaleID:      sale.ID,
			EmployeeID:  employeeID,
			TotalAmount: order.TotalAmount,
		},
	})
	return order, nil
}

// SalesByEmployee returns the completed sales credited to an employee.
func (s *OrderService) SalesByEmployee(ctx context.Context, orgID, employeeID string) ([]domain.Sale, error) {
	return s.sales.ListByEmployee(ctx, orgID, employeeID)
}
