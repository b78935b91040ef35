package domain

import "time"

// MeetingType classifies a visit at check-out time.
type MeetingType string

const (
	MeetingTypeFirstMeeting MeetingType = "first_meeting"
	MeetingTypeFollowUp     MeetingType = "follow_up"
	MeetingTypeDemo         MeetingType = "demo"
	MeetingTypeNegotiation  MeetingType = "negotiation"
	MeetingTypeTraining     MeetingType = "training"
)

// MeetingOutcome records the result of a visit.
type MeetingOutcome string

const (
	MeetingOutcomeInterested       MeetingOutcome = "interested"
	MeetingOutcomeNotInterested    MeetingOutcome = "not_interested"
	MeetingOutcomeFollowUpRequired MeetingOutcome = "follow_up_required"
)

// Meeting is a timed visit by an employee to a client at a facility.
type Meeting struct {
	ID               string
	OrganizationID   string
	EmployeeID       string
	FacilityID       string
	FacilityName     string
	ClientID         string
	CheckInTime      time.Time
	CheckOutTime     *time.Time
	TimeSpentMinutes *int
	MeetingType      *MeetingType
	Outcome          *MeetingOutcome
	Notes            *string
	FollowUpDate     *time.Time
	OrderID          *string
	Latitude         float64
	Longitude        float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MonthlyVisits is one bucket of the visit trend report.
type MonthlyVisits struct {
	Year             int
	Month            int
	TotalVisits      int
	UniqueFacilities int
	UniqueEmployees  int
}
