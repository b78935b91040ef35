package domain

import "time"

// OrderStatus is the order lifecycle. Employees create prospective orders
// during meetings; admins move them through pending to completed or rejected.
type OrderStatus string

const (
	OrderStatusProspective OrderStatus = "prospective"
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusCompleted   OrderStatus = "completed"
	OrderStatusRejected    OrderStatus = "rejected"
)

// OrderItem is a single product line on an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// Order is a purchase request for a facility.
type Order struct {
	ID             string
	OrganizationID string
	FacilityID     string
	FacilityName   string
	EmployeeID     *string
	AdminID        *string
	MeetingID      *string
	Items          []OrderItem
	Notes          string
	TotalAmount    float64
	Status         OrderStatus
	CreatedByName  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Sale records a completed order. One sale per completion, never updated.
type Sale struct {
	ID             string
	OrderID        string
	OrganizationID string
	FacilityID     string
	EmployeeID     *string
	AdminID        *string
	Items          []OrderItem
	TotalAmount    float64
	CreatedAt      time.Time
}

// MonthlySales is one bucket of the sales trend report.
type MonthlySales struct {
	Year       int
	Month      int
	TotalSales float64
	OrderCount int
}
