package domain

import "time"

// Admin manages a single organization. Admins start unverified and must be
// approved by the superadmin before they can set a password or log in.
type Admin struct {
	ID               string
	Email            string
	Name             string
	Phone            string
	OrganizationID   string
	OrganizationName string
	PasswordHash     *string
	Verified         bool
	VerifiedAt       *time.Time
	VerifiedBy       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SuperAdmin is the singleton bootstrap principal. It has no organization.
type SuperAdmin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
