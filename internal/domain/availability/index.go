package availability

import (
	"strings"
	"time"

	"enablers/internal/domain/shared/daterange"
)

// DefaultHorizonDays is the number of days covered when callers do not say.
const DefaultHorizonDays = 90

// Index holds the per-day signals derived from an enabler's sources. It is
// rebuilt from scratch whenever a source changes and never persisted.
type Index struct {
	EnablerID string
	booked    map[string]string
	blocked   DaySet
	available DaySet
}

// Build derives an index for enablerID. Records that belong to another
// enabler are ignored. now decides whether holds have lapsed.
func Build(enablerID string, src Sources, now time.Time) *Index {
	ix := &Index{
		EnablerID: enablerID,
		booked:    make(map[string]string),
		blocked:   make(DaySet),
		available: make(DaySet),
	}

	for _, ev := range src.CalendarEvents {
		if !ix.owns(ev.EnablerID) || ev.StartDateTime.IsZero() {
			continue
		}
		if ev.isEngaged() {
			ix.booked[daterange.DayKey(ev.StartDateTime)] = ReasonConfirmedBooking
		}
	}
	for _, b := range src.Bookings {
		if !ix.owns(b.EnablerID) || !b.isEngaged() {
			continue
		}
		// A booking whose event is missing or undated does not block.
		date, ok := src.EventDates[b.EventID]
		if !ok || date.IsZero() {
			continue
		}
		ix.booked[daterange.DayKey(date)] = ReasonConfirmedBooking
	}
	for _, h := range src.Holds {
		if !ix.owns(h.EnablerID) || h.SlotStart.IsZero() || !h.Active(now) {
			continue
		}
		key := daterange.DayKey(h.SlotStart)
		if _, taken := ix.booked[key]; !taken {
			ix.booked[key] = ReasonSlotHeld
		}
	}
	for _, ev := range src.CalendarEvents {
		if !ix.owns(ev.EnablerID) || ev.StartDateTime.IsZero() {
			continue
		}
		if ev.EventType == EventTypeUnavailable {
			ix.blocked.Add(daterange.DayKey(ev.StartDateTime))
		}
	}
	for _, r := range src.Rules {
		if !ix.owns(r.EnablerID) || !r.IsAvailable {
			continue
		}
		for _, d := range r.DaysOfWeek {
			ix.available.Add(strings.ToLower(strings.TrimSpace(d)))
		}
	}
	return ix
}

func (ix *Index) owns(enablerID string) bool {
	return enablerID == "" || ix.EnablerID == "" || enablerID == ix.EnablerID
}

// Day derives the status of the calendar day containing t. Precedence is
// booking, then hold, then unavailable calendar entry, then rules.
func (ix *Index) Day(t time.Time) DayStatus {
	key := daterange.DayKey(t)
	if reason, ok := ix.booked[key]; ok {
		return DayStatus{Date: key, Status: StatusBooked, Reason: reason, CanBook: false}
	}
	if ix.blocked.Has(key) {
		return DayStatus{Date: key, Status: StatusBlocked, Reason: ReasonUnavailable, CanBook: false}
	}
	reason := ReasonCheckProvider
	if ix.available.Has(daterange.DayOfWeekName(t)) {
		reason = ReasonAvailable
	}
	return DayStatus{Date: key, Status: StatusAvailable, Reason: reason, CanBook: true}
}

// Compute returns the status of each of the days calendar days starting at start.
func (ix *Index) Compute(start time.Time, days int) Calendar {
	out := make(Calendar, max(days, 0))
	for _, day := range daterange.Horizon(start, days).EachDay() {
		status := ix.Day(day)
		out[status.Date] = status
	}
	return out
}

// BlockedDates returns the booked or blocked days in [start, end], end day
// inclusive. It matches Compute on every day without consulting rules.
func (ix *Index) BlockedDates(start, end time.Time) DaySet {
	out := make(DaySet)
	for key := range ix.booked {
		if within(key, start, end) {
			out.Add(key)
		}
	}
	for key := range ix.blocked {
		if within(key, start, end) {
			out.Add(key)
		}
	}
	return out
}

func within(key string, start, end time.Time) bool {
	day, err := daterange.ParseDayKey(key)
	if err != nil {
		return false
	}
	return daterange.IsWithinWindow(day, start, end)
}

// Compute is a one-shot Build followed by Index.Compute.
func Compute(enablerID string, start time.Time, days int, src Sources, now time.Time) Calendar {
	return Build(enablerID, src, now).Compute(start, days)
}

// NextAvailableDate scans days 0..days-1 from the day of from and returns the
// first one absent from blocked. ok is false when the whole window is taken,
// which means no visibility past the horizon rather than permanent unavailability.
func NextAvailableDate(blocked DaySet, from time.Time, days int) (time.Time, bool) {
	for _, day := range daterange.Horizon(from, days).EachDay() {
		if !blocked.Has(daterange.DayKey(day)) {
			return day, true
		}
	}
	return time.Time{}, false
}
