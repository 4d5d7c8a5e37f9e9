package availability

import (
	"slices"
	"time"

	"enablers/internal/domain/shared/daterange"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusBlocked   Status = "blocked"
	StatusUnknown   Status = "unknown"
)

const (
	ReasonConfirmedBooking = "Confirmed booking"
	ReasonSlotHeld         = "Time slot held"
	ReasonUnavailable      = "Unavailable"
	ReasonAvailable        = "Available"
	ReasonCheckProvider    = "Available (check with provider)"
	ReasonUnknown          = "Availability unknown (check with provider)"
)

// DayStatus is the derived state of one calendar day.
type DayStatus struct {
	Date    string `json:"date"`
	Status  Status `json:"status"`
	Reason  string `json:"reason"`
	CanBook bool   `json:"can_book"`
}

// Occupied reports whether the day is booked or blocked.
func (d DayStatus) Occupied() bool {
	return d.Status == StatusBooked || d.Status == StatusBlocked
}

// Calendar maps day keys to their status.
type Calendar map[string]DayStatus

// Keys returns the day keys in chronological order.
func (c Calendar) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Ordered returns the entries in chronological order.
func (c Calendar) Ordered() []DayStatus {
	keys := c.Keys()
	out := make([]DayStatus, 0, len(keys))
	for _, k := range keys {
		out = append(out, c[k])
	}
	return out
}

// Counts tallies days per status.
func (c Calendar) Counts() map[Status]int {
	out := make(map[Status]int, 4)
	for _, d := range c {
		out[d.Status]++
	}
	return out
}

// UnknownCalendar is the fail-open result used when sources cannot be loaded:
// every day stays bookable with an explanatory reason.
func UnknownCalendar(start time.Time, days int) Calendar {
	out := make(Calendar, days)
	for _, day := range daterange.Horizon(start, days).EachDay() {
		key := daterange.DayKey(day)
		out[key] = DayStatus{Date: key, Status: StatusUnknown, Reason: ReasonUnknown, CanBook: true}
	}
	return out
}

// DaySet is a set of day keys.
type DaySet map[string]struct{}

func (s DaySet) Add(key string) { s[key] = struct{}{} }

func (s DaySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the members in chronological order.
func (s DaySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
