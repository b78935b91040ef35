package domain

import "time"

// FacilityType classifies the places field reps visit.
type FacilityType string

const (
	FacilityTypeHospital    FacilityType = "hospital"
	FacilityTypeClinic      FacilityType = "clinic"
	FacilityTypeNursingHome FacilityType = "nursing_home"
	FacilityTypeDiagnostic  FacilityType = "diagnostic"
	FacilityTypePharmacy    FacilityType = "pharmacy"
	FacilityTypeOther       FacilityType = "other"
)

// FacilityStatus is the soft-delete lifecycle.
type FacilityStatus string

const (
	FacilityStatusActive   FacilityStatus = "active"
	FacilityStatusInactive FacilityStatus = "inactive"
)

// Facility is a clinic or hospital scoped to an organization.
type Facility struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
	City           string
	State          string
	Country        string
	Pincode        string
	Phone          *string
	Email          *string
	Type           FacilityType
	Status         FacilityStatus
	Latitude       *float64
	Longitude      *float64
	PlaceID        *string
	Specialties    []string
	Rating         float64
	TotalRatings   int
	AddedBy        string
	AddedByRole    Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// FacilityVisitStats summarizes visit history for a single facility.
type FacilityVisitStats struct {
	TotalVisits int
	LastVisit   *time.Time
}
