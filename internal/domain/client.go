package domain

import "time"

// ClientCapacity describes the contact's role at the facility.
type ClientCapacity string

const (
	ClientCapacityEndUser        ClientCapacity = "end_user"
	ClientCapacityIntentProvider ClientCapacity = "intent_provider"
	ClientCapacityDecisionMaker  ClientCapacity = "decision_maker"
	ClientCapacityInfluencer     ClientCapacity = "influencer"
	ClientCapacityPurchase       ClientCapacity = "purchase"
)

// Client is a contact person at a facility.
type Client struct {
	ID             string
	OrganizationID string
	FacilityID     string
	FacilityName   string
	Name           string
	Designation    string
	Department     string
	Mobile         string
	Email          string
	Capacity       ClientCapacity
	CreatedBy      string
	CreatedByRole  Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
