package planning

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition     = errors.New("planning: invalid venue status transition")
	ErrVenueLocationRequired = errors.New("planning: venue enabler or address required")
)

// VenueStatus tracks whether the host has settled where the event happens.
type VenueStatus string

const (
	PendingVenue VenueStatus = "pending_venue"
	WithVenue    VenueStatus = "with_venue"
)

// Transition moves from s to next. The only defined edge is
// pending_venue -> with_venue; nothing leads back.
func (s VenueStatus) Transition(next VenueStatus) (VenueStatus, error) {
	if s.normalized() == PendingVenue && next == WithVenue {
		return WithVenue, nil
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.normalized(), next)
}

// normalized treats records written before the status existed as pending.
func (s VenueStatus) normalized() VenueStatus {
	if s == "" {
		return PendingVenue
	}
	return s
}

// VenueSelection is what the host supplies to settle the venue: a venue
// enabler, an explicit address, or both.
type VenueSelection struct {
	VenueEnablerID string
	Address        string
	ServiceArea    string
}
