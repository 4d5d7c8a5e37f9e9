// Package venue settles where a host event takes place and tells the
// enablers already engaged for it.
package venue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	"enablers/internal/app/handlers/compatibility"
	"enablers/internal/app/policies"
	"enablers/internal/domain/availability"
	"enablers/internal/domain/notification"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/events"
	"enablers/internal/domain/shared/query"
)

var ErrNotVenueEnabler = errors.New("venue: enabler is not a venue")

const confirmVenueKey = "event.confirm_venue"

// linked lists booking statuses whose enablers hear about the venue.
var linked = []string{
	string(availability.BookingConfirmed),
	string(availability.BookingInProgress),
	string(availability.BookingPending),
}

type ConfirmVenueCommand struct {
	EventID        string
	VenueEnablerID string
	Address        string `validate:"max=300"`
}

func (c ConfirmVenueCommand) Key() string { return confirmVenueKey }

type ConfirmVenueHandler struct {
	Events    query.GuardedUpdater[planning.Event]
	Bookings  query.Finder[availability.Booking]
	Checker   *compatibility.Checker
	Notifier  policies.Notifier
	Publisher policies.EventPublisher
	Now       func() time.Time
	Logger    *slog.Logger
}

func (h *ConfirmVenueHandler) Handle(ctx context.Context, cmd ConfirmVenueCommand) (dto.VenueConfirmation, error) {
	ev, err := h.Checker.Event(ctx, cmd.EventID)
	if err != nil {
		return dto.VenueConfirmation{}, err
	}
	sel := planning.VenueSelection{VenueEnablerID: cmd.VenueEnablerID, Address: cmd.Address}
	if sel.VenueEnablerID != "" {
		v, err := h.Checker.Enabler(ctx, sel.VenueEnablerID)
		if err != nil {
			return dto.VenueConfirmation{}, err
		}
		if !v.IsVenue() {
			return dto.VenueConfirmation{}, fmt.Errorf("%w: %s is %q", ErrNotVenueEnabler, v.ID, v.Category)
		}
		sel.ServiceArea = v.ServiceArea
		if sel.Address == "" {
			sel.Address = v.ServiceArea
		}
	}

	now := h.now()
	if err := ev.ConfirmVenue(sel, now); err != nil {
		return dto.VenueConfirmation{}, err
	}
	recorded := ev.DrainEvents()
	// Another confirmation may have landed since the load.
	stillPending := query.Where().InStrings("venue_status", string(planning.PendingVenue), "")
	if err := h.Events.UpdateIf(ctx, ev.ID, stillPending, *ev); err != nil {
		if errors.Is(err, query.ErrConflict) {
			return dto.VenueConfirmation{}, fmt.Errorf("%w: event %s already has a venue", planning.ErrInvalidTransition, ev.ID)
		}
		return dto.VenueConfirmation{}, fmt.Errorf("save event %s: %w", ev.ID, err)
	}
	h.publish(ctx, ev.ID, recorded)

	enablerIDs, err := h.linkedEnablers(ctx, ev.ID)
	if err != nil {
		// The venue is already saved; only the follow-ups are lost.
		h.warn(ctx, "linked bookings not loaded", ev.ID, err)
		return dto.MapVenueConfirmation(ev, nil, 0), nil
	}

	reevaluated := make([]dto.Compatibility, 0, len(enablerIDs))
	notified := 0
	for _, id := range enablerIDs {
		e, err := h.Checker.Enabler(ctx, id)
		if err != nil {
			h.warn(ctx, "linked enabler skipped", ev.ID, err)
			continue
		}
		reevaluated = append(reevaluated, h.Checker.Check(ctx, ev, e))
		if h.notify(ctx, ev, id, now) {
			notified++
		}
	}
	return dto.MapVenueConfirmation(ev, reevaluated, notified), nil
}

func (h *ConfirmVenueHandler) linkedEnablers(ctx context.Context, eventID string) ([]string, error) {
	bookings, err := h.Bookings.Filter(ctx, query.Where().Eq("event_id", eventID).InStrings("status", linked...))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if b.EnablerID == "" {
			continue
		}
		if _, dup := seen[b.EnablerID]; dup {
			continue
		}
		seen[b.EnablerID] = struct{}{}
		ids = append(ids, b.EnablerID)
	}
	return ids, nil
}

// notify hands one message to the notifier. Delivery failures never fail the
// confirmation.
func (h *ConfirmVenueHandler) notify(ctx context.Context, ev *planning.Event, enablerID string, now time.Time) bool {
	if h.Notifier == nil {
		return false
	}
	n := notification.Notification{
		ID:          uuid.NewString(),
		RecipientID: enablerID,
		EventID:     ev.ID,
		Type:        notification.TypeVenueConfirmed,
		Title:       "Venue confirmed",
		Message:     venueMessage(ev),
		CreatedAt:   now,
	}
	if err := h.Notifier.Notify(ctx, n); err != nil {
		h.warn(ctx, "venue notification failed", ev.ID, err)
		return false
	}
	return true
}

func venueMessage(ev *planning.Event) string {
	name := ev.Title
	if name == "" {
		name = "An event you are booked for"
	}
	if ev.Location == "" {
		return name + " now has a confirmed venue."
	}
	return fmt.Sprintf("%s now has a confirmed venue in %s.", name, ev.Location)
}

func (h *ConfirmVenueHandler) publish(ctx context.Context, eventID string, evs []events.DomainEvent) {
	if h.Publisher == nil || len(evs) == 0 {
		return
	}
	if err := h.Publisher.Publish(ctx, evs); err != nil {
		h.warn(ctx, "venue events not published", eventID, err)
	}
}

func (h *ConfirmVenueHandler) warn(ctx context.Context, msg, eventID string, err error) {
	if h.Logger != nil {
		h.Logger.WarnContext(ctx, msg, "event_id", eventID, "error", err)
	}
}

func (h *ConfirmVenueHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[ConfirmVenueCommand, dto.VenueConfirmation] = (*ConfirmVenueHandler)(nil)
