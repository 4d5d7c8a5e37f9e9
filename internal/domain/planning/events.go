package planning

import "time"

type VenueConfirmed struct {
	EventID        string    `json:"event_id"`
	HostID         string    `json:"host_id"`
	VenueEnablerID string    `json:"venue_enabler_id,omitempty"`
	Location       string    `json:"location"`
	At             time.Time `json:"at"`
}

func (e VenueConfirmed) EventName() string     { return "event.venue_confirmed" }
func (e VenueConfirmed) AggregateID() string   { return e.EventID }
func (e VenueConfirmed) OccurredAt() time.Time { return e.At }
