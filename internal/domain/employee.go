package domain

import "time"

// Employee is a field representative created by an admin. Employees skip the
// verification step: they inherit trust from the admin's tenant.
type Employee struct {
	ID               string
	Email            string
	Name             string
	Phone            string
	OrganizationID   string
	OrganizationName string
	AdminID          string
	PasswordHash     *string
	Designation      string
	Department       string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
