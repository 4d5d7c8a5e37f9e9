package availability

import "time"

// BookingRecorded is published when an enabler is engaged for an event.
type BookingRecorded struct {
	BookingID string    `json:"booking_id"`
	EnablerID string    `json:"enabler_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

func (e BookingRecorded) EventName() string     { return "booking.recorded" }
func (e BookingRecorded) AggregateID() string   { return e.BookingID }
func (e BookingRecorded) OccurredAt() time.Time { return e.At }

// HoldPlaced is published when a slot is soft-locked.
type HoldPlaced struct {
	ReservationID string    `json:"reservation_id"`
	EnablerID     string    `json:"enabler_id"`
	EventID       string    `json:"event_id,omitempty"`
	Date          string    `json:"date"`
	ExpiresAt     time.Time `json:"expires_at"`
	At            time.Time `json:"at"`
}

func (e HoldPlaced) EventName() string     { return "booking.hold_placed" }
func (e HoldPlaced) AggregateID() string   { return e.ReservationID }
func (e HoldPlaced) OccurredAt() time.Time { return e.At }
