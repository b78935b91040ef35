package events

import (
	"time"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAdminRegistered EventType = "admin_registered"
	EventAdminVerified   EventType = "admin_verified"
	EventEmployeeCreated EventType = "employee_created"
	EventOrderCompleted  EventType = "order_completed"
	EventOTPRequested    EventType = "otp_requested"
	EventWFHDecided      EventType = "wfh_decided"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	OrganizationID string      `json:"organization_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// AdminRegisteredPayload payload.
type AdminRegisteredPayload struct {
	AdminID          string `json:"admin_id"`
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name"`
}

// AdminVerifiedPayload payload.
type AdminVerifiedPayload struct {
	AdminID    string `json:"admin_id"`
	Email      string `json:"email"`
	VerifiedBy string `json:"verified_by"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	CreatedBy  string `json:"created_by"`
}

// OrderCompletedPayload payload.
type OrderCompletedPayload struct {
	OrderID     string  `json:"order_id"`
	SaleID      string  `json:"sale_id"`
	EmployeeID  string  `json:"employee_id"`
	TotalAmount float64 `json:"total_amount"`
}

// OTPRequestedPayload payload.
type OTPRequestedPayload struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// WFHDecidedPayload payload.
type WFHDecidedPayload struct {
	RequestID string           `json:"request_id"`
	Status    domain.WFHStatus `json:"status"`
	DecidedBy string           `json:"decided_by"`
}
