package domain

import "time"

// Attendance is one working day for an employee, one row per day.
type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	ClockInTime  time.Time
	ClockOutTime *time.Time
	WorkFromHome bool
	Latitude     *float64
	Longitude    *float64
}

// WFHStatus is the lifecycle of a work-from-home request.
type WFHStatus string

const (
	WFHStatusPending  WFHStatus = "pending"
	WFHStatusApproved WFHStatus = "approved"
	WFHStatusRejected WFHStatus = "rejected"
)

// WFHRequest is an employee request to work from home, decided by their admin.
type WFHRequest struct {
	ID             string
	OrganizationID string
	EmployeeID     string
	Date           time.Time
	Reason         string
	Status         WFHStatus
	DecidedBy      *string
	DecidedAt      *time.Time
	CreatedAt      time.Time
}
