package venue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enablers/internal/app/handlers/compatibility"
	"enablers/internal/domain/availability"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/notification"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/events"
	"enablers/internal/domain/shared/query"
	"enablers/internal/infra/storage/memory"
)

type recordingPublisher struct{ got []events.DomainEvent }

func (p *recordingPublisher) Publish(_ context.Context, evs []events.DomainEvent) error {
	p.got = append(p.got, evs...)
	return errors.New("broker down")
}

type flakyNotifier struct{ calls []string }

func (n *flakyNotifier) Notify(_ context.Context, msg notification.Notification) error {
	n.calls = append(n.calls, msg.RecipientID)
	if msg.RecipientID == "dj-1" {
		return errors.New("unreachable")
	}
	return nil
}

func setup(t *testing.T) (*ConfirmVenueHandler, *memory.Collection[planning.Event], *recordingPublisher, *flakyNotifier) {
	t.Helper()
	ctx := context.Background()
	evs := memory.NewCollection(func(e planning.Event) string { return e.ID })
	ens := memory.NewCollection(func(e enabler.Enabler) string { return e.ID })
	bks := memory.NewCollection(func(b availability.Booking) string { return b.ID })

	ev := planning.NewEvent("ev1", "host-1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	ev.Title = "Launch party"
	require.NoError(t, evs.Create(ctx, *ev))
	for _, e := range []enabler.Enabler{
		{ID: "hall-1", Category: "banquet_hall", ServiceArea: "Denver"},
		{ID: "dj-1", Category: "music", ServiceArea: "Denver"},
		{ID: "cake-1", Category: "bakery", ServiceArea: "Boulder"},
	} {
		require.NoError(t, ens.Create(ctx, e))
	}
	for _, b := range []availability.Booking{
		{ID: "b1", EnablerID: "dj-1", EventID: "ev1", Status: availability.BookingConfirmed},
		{ID: "b2", EnablerID: "cake-1", EventID: "ev1", Status: availability.BookingPending},
		{ID: "b3", EnablerID: "cake-1", EventID: "ev1", Status: availability.BookingInProgress},
		{ID: "b4", EnablerID: "hall-1", EventID: "ev1", Status: availability.BookingCancelled},
		{ID: "b5", EnablerID: "dj-1", EventID: "ev2", Status: availability.BookingConfirmed},
	} {
		require.NoError(t, bks.Create(ctx, b))
	}

	pub := &recordingPublisher{}
	notifier := &flakyNotifier{}
	h := &ConfirmVenueHandler{
		Events:    evs,
		Bookings:  bks,
		Checker:   &compatibility.Checker{Enablers: ens, Events: evs},
		Notifier:  notifier,
		Publisher: pub,
		Now:       func() time.Time { return time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC) },
	}
	return h, evs, pub, notifier
}

func TestConfirmVenueNotifiesLinkedEnablers(t *testing.T) {
	h, evs, pub, notifier := setup(t)
	ctx := context.Background()

	res, err := h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", VenueEnablerID: "hall-1", Address: " 1 Main St, Denver "})
	require.NoError(t, err, "publish and notify failures are not fatal")

	assert.Equal(t, string(planning.WithVenue), res.VenueStatus)
	assert.Equal(t, "1 Main St, Denver", res.Location)
	assert.Equal(t, "Denver", res.ServiceArea)
	assert.Equal(t, []string{"dj-1", "cake-1"}, notifier.calls)
	assert.Equal(t, 1, res.Notified)
	require.Len(t, res.Reevaluated, 2)
	assert.False(t, res.Reevaluated[1].Verdict.HasIssue("venue"))

	stored, ok, err := query.First[planning.Event](ctx, evs, query.ByID("ev1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.VenueConfirmed)
	assert.Equal(t, "hall-1", stored.VenueEnablerID)
	assert.Empty(t, stored.PendingEvents())

	require.Len(t, pub.got, 1)
	assert.Equal(t, "event.venue_confirmed", pub.got[0].EventName())
}

func TestConfirmVenueRejections(t *testing.T) {
	h, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", VenueEnablerID: "dj-1"})
	assert.ErrorIs(t, err, ErrNotVenueEnabler)
	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", VenueEnablerID: "ghost"})
	assert.ErrorIs(t, err, enabler.ErrNotFound)
	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "missing", Address: "x"})
	assert.ErrorIs(t, err, planning.ErrEventNotFound)
	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", Address: "   "})
	assert.ErrorIs(t, err, planning.ErrVenueLocationRequired)

	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", Address: "Denver"})
	require.NoError(t, err)
	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", Address: "Boulder"})
	assert.ErrorIs(t, err, planning.ErrInvalidTransition)
}

// staleEvents always serves the event as loaded before any confirmation.
type staleEvents struct{ ev planning.Event }

func (s staleEvents) Filter(context.Context, query.Query) ([]planning.Event, error) {
	return []planning.Event{s.ev}, nil
}

func TestConfirmVenueOnStaleEventLoses(t *testing.T) {
	h, evs, _, notifier := setup(t)
	ctx := context.Background()
	before, _, err := query.First[planning.Event](ctx, evs, query.ByID("ev1"))
	require.NoError(t, err)

	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", VenueEnablerID: "hall-1"})
	require.NoError(t, err)
	sent := len(notifier.calls)

	h.Checker = &compatibility.Checker{Enablers: h.Checker.Enablers, Events: staleEvents{ev: before}}
	_, err = h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", Address: "Boulder"})
	assert.ErrorIs(t, err, planning.ErrInvalidTransition)
	assert.Len(t, notifier.calls, sent, "the losing confirmation notifies nobody")

	stored, _, err := query.First[planning.Event](ctx, evs, query.ByID("ev1"))
	require.NoError(t, err)
	assert.Equal(t, "hall-1", stored.VenueEnablerID)
	assert.Equal(t, "Denver", stored.Location)
}

func TestConcurrentVenueConfirmations(t *testing.T) {
	h, evs, _, _ := setup(t)
	h.Notifier, h.Publisher = nil, nil
	ctx := context.Background()

	const callers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  []string
		rejected int
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr := fmt.Sprintf("%d Main St", i)
			_, err := h.Handle(ctx, ConfirmVenueCommand{EventID: "ev1", Address: addr})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, addr)
				return
			}
			if assert.ErrorIs(t, err, planning.ErrInvalidTransition) {
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, callers-1, rejected)
	stored, _, err := query.First[planning.Event](ctx, evs, query.ByID("ev1"))
	require.NoError(t, err)
	assert.Equal(t, winners[0], stored.Location)
}
