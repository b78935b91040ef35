package dto

import "time"

// EmployeeCreateRequest payload for onboarding a field rep.
type EmployeeCreateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
}

// EmployeeActiveRequest toggles an account.
type EmployeeActiveRequest struct {
	Active bool `json:"active"`
}

// FacilityRequest payload for creating or updating a facility.
type FacilityRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Pincode     string   `json:"pincode"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	Type        string   `json:"type"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Specialties []string `json:"specialties"`
}

// ClientRequest payload for creating or updating a contact.
type ClientRequest struct {
	FacilityID  string `json:"facility_id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
	Capacity    string `json:"capacity"`
}

// ProductRequest payload for creating or updating a catalog item.
type ProductRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Manufacturer string   `json:"manufacturer"`
	Price        *float64 `json:"price"`
	Stock        *int     `json:"stock"`
}

// StockAdjustmentRequest is one line of a bulk stock update.
type StockAdjustmentRequest struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// BulkStockRequest payload for bulk stock updates.
type BulkStockRequest struct {
	Adjustments []StockAdjustmentRequest `json:"adjustments"`
}

// OrderLineRequest is one requested product line.
type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest payload for placing or revising an order.
type OrderRequest struct {
	FacilityID string             `json:"facility_id"`
	Items      []OrderLineRequest `json:"items"`
	Notes      string             `json:"notes"`
}

// OrderDecisionRequest payload for completing or rejecting an order.
type OrderDecisionRequest struct {
	Status string `json:"status"`
}

// WFHDecisionRequest payload for deciding a work-from-home request.
type WFHDecisionRequest struct {
	Approve bool `json:"approve"`
}

// PendingAdminResponse is one row of the superadmin verification queue.
type PendingAdminResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	OrganizationID   string    `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	CreatedAt        time.Time `json:"created_at"`
}
