package availability

import (
	"slices"
	"time"

	"enablers/internal/domain/shared/daterange"
)

type CalendarEventStatus string

const (
	CalendarConfirmed  CalendarEventStatus = "confirmed"
	CalendarPending    CalendarEventStatus = "pending"
	CalendarInProgress CalendarEventStatus = "in_progress"
	CalendarCancelled  CalendarEventStatus = "cancelled"
)

type CalendarEventType string

const (
	EventTypeBooking     CalendarEventType = "booking"
	EventTypeUnavailable CalendarEventType = "unavailable"
	EventTypePersonal    CalendarEventType = "personal"
)

// CalendarEvent is a blocked or tentative slot on an enabler's calendar.
type CalendarEvent struct {
	ID            string              `bson:"_id" json:"id"`
	EnablerID     string              `bson:"enabler_id" json:"enabler_id"`
	StartDateTime time.Time           `bson:"start_datetime" json:"start_datetime"`
	Status        CalendarEventStatus `bson:"status" json:"status"`
	EventType     CalendarEventType   `bson:"event_type" json:"event_type"`
	Title         string              `bson:"title,omitempty" json:"title,omitempty"`
}

func (e CalendarEvent) isEngaged() bool {
	return e.Status == CalendarConfirmed || e.Status == CalendarInProgress
}

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingPending    BookingStatus = "pending"
	BookingCancelled  BookingStatus = "cancelled"
)

// Booking is an engagement of an enabler for a host event. Its date lives on
// the linked event.
type Booking struct {
	ID          string        `bson:"_id" json:"id"`
	EnablerID   string        `bson:"enabler_id" json:"enabler_id"`
	EventID     string        `bson:"event_id" json:"event_id"`
	HostID      string        `bson:"host_id,omitempty" json:"host_id,omitempty"`
	Status      BookingStatus `bson:"status" json:"status"`
	TotalAmount float64       `bson:"total_amount" json:"total_amount"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
}

// Blocking lists the booking statuses that occupy the event date.
var Blocking = []BookingStatus{BookingConfirmed, BookingInProgress}

func (b Booking) isEngaged() bool {
	return slices.Contains(Blocking, b.Status)
}

type ReservationStatus string

const (
	ReservationHold      ReservationStatus = "HOLD"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationExpired   ReservationStatus = "EXPIRED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation is a time-boxed soft lock on a slot taken during negotiation.
type Reservation struct {
	ID        string            `bson:"_id" json:"id"`
	EnablerID string            `bson:"enabler_id" json:"enabler_id"`
	EventID   string            `bson:"event_id,omitempty" json:"event_id,omitempty"`
	SlotStart time.Time         `bson:"slot_start" json:"slot_start"`
	Status    ReservationStatus `bson:"status" json:"status"`
	ExpiresAt time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	// SlotKey is set while the reservation occupies its day and is unique
	// among stored reservations.
	SlotKey string `bson:"slot_key,omitempty" json:"-"`
}

// Lock refreshes SlotKey from the current status.
func (r *Reservation) Lock() {
	r.SlotKey = ""
	if slices.Contains(Holding, r.Status) {
		r.SlotKey = SlotKey(r.EnablerID, r.SlotStart)
	}
}

// SlotKey names one enabler day.
func SlotKey(enablerID string, day time.Time) string {
	return enablerID + "|" + daterange.DayKey(day)
}

// Holding lists the reservation statuses that occupy their slot.
var Holding = []ReservationStatus{ReservationHold, ReservationConfirmed}

// Active reports whether the reservation still locks its slot at now. Only a
// HOLD with a past expiry lapses.
func (r Reservation) Active(now time.Time) bool {
	switch r.Status {
	case ReservationConfirmed:
		return true
	case ReservationHold:
		return r.ExpiresAt.IsZero() || now.Before(r.ExpiresAt)
	default:
		return false
	}
}

// Rule is an enabler's recurring weekly availability declaration.
type Rule struct {
	ID          string   `bson:"_id" json:"id"`
	EnablerID   string   `bson:"enabler_id" json:"enabler_id"`
	DaysOfWeek  []string `bson:"day_of_week" json:"day_of_week"`
	IsAvailable bool     `bson:"is_available" json:"is_available"`
}

// Sources are the collections an index is derived from, already narrowed to a
// single enabler. EventDates resolves booking event ids to the event day.
type Sources struct {
	CalendarEvents []CalendarEvent
	Bookings       []Booking
	Holds          []Reservation
	Rules          []Rule
	EventDates     map[string]time.Time
}
