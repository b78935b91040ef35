package dto

// CheckInRequest payload for starting a visit.
type CheckInRequest struct {
	FacilityID string  `json:"facility_id"`
	ClientID   string  `json:"client_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// CheckOutRequest payload for ending a visit. An order may be attached.
type CheckOutRequest struct {
	MeetingType string        `json:"meeting_type"`
	Notes       *string       `json:"notes"`
	Order       *OrderRequest `json:"order"`
}

// OutcomeRequest payload for recording a visit result.
type OutcomeRequest struct {
	Outcome      string  `json:"outcome"`
	Notes        *string `json:"notes"`
	FollowUpDate *string `json:"follow_up_date"`
}

// ClockInRequest payload for starting the working day.
type ClockInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// WFHRequestPayload payload for filing a work-from-home request.
type WFHRequestPayload struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// RatingRequest payload for rating a facility.
type RatingRequest struct {
	Rating int `json:"rating"`
}
