package planning

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"enablers/internal/domain/enabler"
	"enablers/internal/domain/shared/events"
	"enablers/internal/domain/shared/ident"
)

var (
	ErrEventNotFound  = errors.New("planning: event not found")
	ErrInvalidEventID = errors.New("planning: invalid event id")
)

// ValidateEventID rejects malformed ids before any store is consulted.
func ValidateEventID(id string) error {
	if err := ident.Check(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEventID, err)
	}
	return nil
}

// Event is the host's event being planned.
type Event struct {
	ID                 string      `bson:"_id" json:"id"`
	HostID             string      `bson:"host_id" json:"host_id"`
	Title              string      `bson:"title" json:"title"`
	Location           string      `bson:"location" json:"location"`
	ServiceArea        string      `bson:"service_area" json:"service_area"`
	Date               time.Time   `bson:"date" json:"date"`
	GuestCount         int         `bson:"guest_count" json:"guest_count"`
	GuestMin           int         `bson:"guest_min" json:"guest_min"`
	GuestMax           int         `bson:"guest_max" json:"guest_max"`
	Budget             float64     `bson:"budget" json:"budget"`
	VenueStatus        VenueStatus `bson:"venue_status" json:"venue_status"`
	VenueConfirmed     bool        `bson:"venue_confirmed" json:"venue_confirmed"`
	VenueEnablerID     string      `bson:"venue_enabler_id,omitempty" json:"venue_enabler_id,omitempty"`
	SelectedCategories []string    `bson:"selected_categories" json:"selected_categories"`
	UpdatedAt          time.Time   `bson:"updated_at" json:"updated_at"`

	events.EventRecorder `bson:"-" json:"-"`
}

// NewEvent starts an event without a venue.
func NewEvent(id, hostID string, now time.Time) *Event {
	return &Event{ID: id, HostID: hostID, VenueStatus: PendingVenue, UpdatedAt: now.UTC()}
}

// Status returns the venue status, treating unset as pending.
func (e *Event) Status() VenueStatus {
	return e.VenueStatus.normalized()
}

// ConfirmVenue fires pending_venue -> with_venue and records VenueConfirmed.
func (e *Event) ConfirmVenue(sel VenueSelection, now time.Time) error {
	sel.Address = strings.TrimSpace(sel.Address)
	sel.VenueEnablerID = strings.TrimSpace(sel.VenueEnablerID)
	if sel.Address == "" && sel.VenueEnablerID == "" {
		return ErrVenueLocationRequired
	}
	next, err := e.Status().Transition(WithVenue)
	if err != nil {
		return err
	}
	if sel.Address != "" {
		e.Location = sel.Address
	}
	switch {
	case strings.TrimSpace(sel.ServiceArea) != "":
		e.ServiceArea = strings.TrimSpace(sel.ServiceArea)
	case sel.Address != "":
		e.ServiceArea = sel.Address
	}
	e.VenueStatus = next
	e.VenueConfirmed = true
	e.VenueEnablerID = sel.VenueEnablerID
	e.UpdatedAt = now.UTC()
	e.Record(VenueConfirmed{
		EventID:        e.ID,
		HostID:         e.HostID,
		VenueEnablerID: e.VenueEnablerID,
		Location:       e.Location,
		At:             e.UpdatedAt,
	})
	return nil
}

// CanOffer reports whether enablers of category may still be offered for the
// event. Once a venue is settled no other venue is offered.
func (e *Event) CanOffer(category string) bool {
	if enabler.IsVenueCategory(category) && e.Status() == WithVenue {
		return false
	}
	if len(e.SelectedCategories) == 0 {
		return true
	}
	return e.Requested(category)
}

// Requested reports whether category is among the categories the host planned.
func (e *Event) Requested(category string) bool {
	want := enabler.NormalizeCategory(category)
	return slices.ContainsFunc(e.SelectedCategories, func(c string) bool {
		return enabler.NormalizeCategory(c) == want
	})
}
