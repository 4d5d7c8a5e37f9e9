package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enablers/internal/domain/shared/daterange"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeIsIdempotent(t *testing.T) {
	now := day(2024, 5, 30)
	src := Sources{
		CalendarEvents: []CalendarEvent{
			{ID: "c1", EnablerID: "E1", StartDateTime: day(2024, 6, 2).Add(14 * time.Hour), Status: CalendarConfirmed, EventType: EventTypeBooking},
			{ID: "c2", EnablerID: "E1", StartDateTime: day(2024, 6, 4), Status: CalendarPending, EventType: EventTypeUnavailable},
		},
		Holds: []Reservation{{ID: "h1", EnablerID: "E1", SlotStart: day(2024, 6, 3), Status: ReservationHold}},
		Rules: []Rule{{EnablerID: "E1", DaysOfWeek: []string{"saturday"}, IsAvailable: true}},
	}

	first := Compute("E1", now, 30, src, now)
	second := Compute("E1", now, 30, src, now)
	assert.Equal(t, first, second)
	assert.Len(t, first, 30)
}

func TestBookingTakesPrecedenceOverHold(t *testing.T) {
	now := day(2024, 5, 30)
	target := day(2024, 6, 1)
	src := Sources{
		Bookings:   []Booking{{ID: "b1", EnablerID: "E1", EventID: "ev1", Status: BookingConfirmed}},
		Holds:      []Reservation{{ID: "h1", EnablerID: "E1", SlotStart: target.Add(10 * time.Hour), Status: ReservationHold}},
		EventDates: map[string]time.Time{"ev1": target},
	}

	got := Build("E1", src, now).Day(target)
	assert.Equal(t, StatusBooked, got.Status)
	assert.Equal(t, ReasonConfirmedBooking, got.Reason)
	assert.False(t, got.CanBook)
}

func TestDayStatusPrecedence(t *testing.T) {
	now := day(2024, 5, 30)
	target := day(2024, 6, 5)

	cases := []struct {
		name       string
		src        Sources
		wantStatus Status
		wantReason string
		wantBook   bool
	}{
		{
			name: "confirmed calendar entry books the day",
			src: Sources{CalendarEvents: []CalendarEvent{
				{EnablerID: "E1", StartDateTime: target.Add(9 * time.Hour), Status: CalendarInProgress, EventType: EventTypeBooking},
				{EnablerID: "E1", StartDateTime: target, Status: CalendarPending, EventType: EventTypeUnavailable},
			}},
			wantStatus: StatusBooked, wantReason: ReasonConfirmedBooking,
		},
		{
			name: "hold beats unavailable entry",
			src: Sources{
				Holds:          []Reservation{{EnablerID: "E1", SlotStart: target, Status: ReservationConfirmed}},
				CalendarEvents: []CalendarEvent{{EnablerID: "E1", StartDateTime: target, Status: CalendarPending, EventType: EventTypeUnavailable}},
			},
			wantStatus: StatusBooked, wantReason: ReasonSlotHeld,
		},
		{
			name:       "unavailable entry blocks",
			src:        Sources{CalendarEvents: []CalendarEvent{{EnablerID: "E1", StartDateTime: target, Status: CalendarPending, EventType: EventTypeUnavailable}}},
			wantStatus: StatusBlocked, wantReason: ReasonUnavailable,
		},
		{
			name:       "pending calendar booking does not block",
			src:        Sources{CalendarEvents: []CalendarEvent{{EnablerID: "E1", StartDateTime: target, Status: CalendarPending, EventType: EventTypeBooking}}},
			wantStatus: StatusAvailable, wantReason: ReasonCheckProvider, wantBook: true,
		},
		{
			name:       "matching rule confirms availability",
			src:        Sources{Rules: []Rule{{EnablerID: "E1", DaysOfWeek: []string{"Wednesday"}, IsAvailable: true}}},
			wantStatus: StatusAvailable, wantReason: ReasonAvailable, wantBook: true,
		},
		{
			name:       "negative rule still leaves the day open",
			src:        Sources{Rules: []Rule{{EnablerID: "E1", DaysOfWeek: []string{"wednesday"}, IsAvailable: false}}},
			wantStatus: StatusAvailable, wantReason: ReasonCheckProvider, wantBook: true,
		},
		{
			name:       "expired hold no longer blocks",
			src:        Sources{Holds: []Reservation{{EnablerID: "E1", SlotStart: target, Status: ReservationHold, ExpiresAt: now.Add(-time.Minute)}}},
			wantStatus: StatusAvailable, wantReason: ReasonCheckProvider, wantBook: true,
		},
		{
			name:       "cancelled reservation ignored",
			src:        Sources{Holds: []Reservation{{EnablerID: "E1", SlotStart: target, Status: ReservationCancelled}}},
			wantStatus: StatusAvailable, wantReason: ReasonCheckProvider, wantBook: true,
		},
		{
			name:       "records of other enablers ignored",
			src:        Sources{Holds: []Reservation{{EnablerID: "E2", SlotStart: target, Status: ReservationHold}}},
			wantStatus: StatusAvailable, wantReason: ReasonCheckProvider, wantBook: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Build("E1", tc.src, now).Day(target)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantReason, got.Reason)
			assert.Equal(t, tc.wantBook, got.CanBook)
			assert.Equal(t, "2024-06-05", got.Date)
		})
	}
}

func TestDefaultOpenWithoutAnySources(t *testing.T) {
	now := day(2024, 5, 30)
	cal := Compute("E1", now, 3, Sources{}, now)
	require.Len(t, cal, 3)
	for _, d := range cal.Ordered() {
		assert.Equal(t, StatusAvailable, d.Status)
		assert.Equal(t, ReasonCheckProvider, d.Reason)
		assert.True(t, d.CanBook)
	}
	assert.Equal(t, []string{"2024-05-30", "2024-05-31", "2024-06-01"}, cal.Keys())
}

func TestBookingWithoutResolvableEventDoesNotBlock(t *testing.T) {
	now := day(2024, 5, 30)
	src := Sources{
		Bookings: []Booking{
			{ID: "b1", EnablerID: "E1", EventID: "missing", Status: BookingConfirmed},
			{ID: "b2", EnablerID: "E1", EventID: "undated", Status: BookingConfirmed},
			{ID: "b3", EnablerID: "E1", Status: BookingInProgress},
		},
		EventDates: map[string]time.Time{"undated": {}},
	}
	ix := Build("E1", src, now)
	assert.Empty(t, ix.BlockedDates(now, now.AddDate(0, 0, 90)))
}

func TestBlockedDatesMatchesCompute(t *testing.T) {
	now := day(2024, 5, 30)
	src := Sources{
		CalendarEvents: []CalendarEvent{
			{EnablerID: "E1", StartDateTime: day(2024, 6, 2), Status: CalendarConfirmed, EventType: EventTypeBooking},
			{EnablerID: "E1", StartDateTime: day(2024, 6, 9), Status: CalendarCancelled, EventType: EventTypeUnavailable},
			{EnablerID: "E1", StartDateTime: day(2024, 9, 1), Status: CalendarConfirmed, EventType: EventTypeBooking},
		},
		Bookings:   []Booking{{EnablerID: "E1", EventID: "ev1", Status: BookingConfirmed}},
		Holds:      []Reservation{{EnablerID: "E1", SlotStart: day(2024, 6, 20), Status: ReservationHold, ExpiresAt: now.Add(time.Hour)}},
		Rules:      []Rule{{EnablerID: "E1", DaysOfWeek: []string{"monday"}, IsAvailable: true}},
		EventDates: map[string]time.Time{"ev1": day(2024, 6, 15)},
	}
	ix := Build("E1", src, now)
	start, days := now, 30
	end := start.AddDate(0, 0, days-1)

	cal := ix.Compute(start, days)
	blocked := ix.BlockedDates(start, end)

	for key, status := range cal {
		assert.Equal(t, status.Occupied(), blocked.Has(key), key)
	}
	for _, key := range blocked.Keys() {
		_, ok := cal[key]
		assert.True(t, ok, "blocked day %s outside computed window", key)
	}
	assert.Equal(t, []string{"2024-06-02", "2024-06-09", "2024-06-15", "2024-06-20"}, blocked.Keys())
}

func TestNextAvailableDateStartsAtToday(t *testing.T) {
	today := day(2024, 5, 30)
	src := Sources{
		Bookings:   []Booking{{ID: "b1", EnablerID: "E1", EventID: "ev1", Status: BookingConfirmed}},
		EventDates: map[string]time.Time{"ev1": day(2024, 6, 1)},
	}
	ix := Build("E1", src, today)
	blocked := ix.BlockedDates(today, today.AddDate(0, 0, 89))

	next, ok := NextAvailableDate(blocked, today.Add(15*time.Hour), 90)
	require.True(t, ok)
	assert.Equal(t, "2024-05-30", daterange.DayKey(next))
}

func TestNextAvailableDateSkipsBlockedAndReportsExhaustion(t *testing.T) {
	today := day(2024, 5, 30)
	blocked := DaySet{}
	blocked.Add("2024-05-30")
	blocked.Add("2024-05-31")

	next, ok := NextAvailableDate(blocked, today, 90)
	require.True(t, ok)
	assert.Equal(t, day(2024, 6, 1), next)

	_, ok = NextAvailableDate(blocked, today, 2)
	assert.False(t, ok)
}

func TestUnknownCalendarIsBookable(t *testing.T) {
	cal := UnknownCalendar(day(2024, 5, 30), 5)
	require.Len(t, cal, 5)
	counts := cal.Counts()
	assert.Equal(t, 5, counts[StatusUnknown])
	for _, d := range cal {
		assert.True(t, d.CanBook)
		assert.False(t, d.Occupied())
	}
}
