package domain

import "time"

// Organization is the tenant boundary. Every admin and employee belongs to
// exactly one organization and all their data is filtered by it.
type Organization struct {
	ID            string
	Name          string
	Address       string
	ContactPerson string
	ContactEmail  string
	ContactNumber string
	EmployeeQuota int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
