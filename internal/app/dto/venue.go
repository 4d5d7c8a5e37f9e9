package dto

import "enablers/internal/domain/planning"

type VenueConfirmation struct {
	EventID        string          `json:"event_id"`
	VenueStatus    string          `json:"venue_status"`
	Location       string          `json:"location"`
	ServiceArea    string          `json:"service_area"`
	VenueEnablerID string          `json:"venue_enabler_id,omitempty"`
	Reevaluated    []Compatibility `json:"reevaluated"`
	Notified       int             `json:"notified"`
}

func MapVenueConfirmation(ev *planning.Event, reevaluated []Compatibility, notified int) VenueConfirmation {
	if reevaluated == nil {
		reevaluated = []Compatibility{}
	}
	return VenueConfirmation{
		EventID:        ev.ID,
		VenueStatus:    string(ev.Status()),
		Location:       ev.Location,
		ServiceArea:    ev.ServiceArea,
		VenueEnablerID: ev.VenueEnablerID,
		Reevaluated:    reevaluated,
		Notified:       notified,
	}
}
