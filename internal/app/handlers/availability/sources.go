package availability

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	domain "enablers/internal/domain/availability"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/query"
)

// Sources are the entity collections an enabler's availability is derived from.
type Sources struct {
	CalendarEvents query.Finder[domain.CalendarEvent]
	Bookings       query.Finder[domain.Booking]
	Holds          query.Finder[domain.Reservation]
	Rules          query.Finder[domain.Rule]
	Events         query.Finder[planning.Event]
}

// Load fetches the four collections of enablerID concurrently, then resolves
// the dates of the events its bookings point to.
func (s Sources) Load(ctx context.Context, enablerID string) (domain.Sources, error) {
	var out domain.Sources
	byEnabler := query.Where().Eq("enabler_id", enablerID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.CalendarEvents.Filter(gctx, byEnabler)
		if err != nil {
			return fmt.Errorf("calendar events: %w", err)
		}
		out.CalendarEvents = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Bookings.Filter(gctx, byEnabler.InStrings("status", bookingStatuses()...))
		if err != nil {
			return fmt.Errorf("bookings: %w", err)
		}
		out.Bookings = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Holds.Filter(gctx, byEnabler.InStrings("status", holdStatuses()...))
		if err != nil {
			return fmt.Errorf("holds: %w", err)
		}
		out.Holds = items
		return nil
	})
	g.Go(func() error {
		items, err := s.Rules.Filter(gctx, byEnabler)
		if err != nil {
			return fmt.Errorf("availability rules: %w", err)
		}
		out.Rules = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Sources{}, err
	}

	dates, err := s.eventDates(ctx, out.Bookings)
	if err != nil {
		return domain.Sources{}, err
	}
	out.EventDates = dates
	return out, nil
}

func (s Sources) eventDates(ctx context.Context, bookings []domain.Booking) (map[string]time.Time, error) {
	dates := make(map[string]time.Time)
	ids := make([]string, 0, len(bookings))
	seen := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b.EventID == "" {
			continue
		}
		if _, ok := seen[b.EventID]; ok {
			continue
		}
		seen[b.EventID] = struct{}{}
		ids = append(ids, b.EventID)
	}
	if len(ids) == 0 || s.Events == nil {
		return dates, nil
	}
	evs, err := s.Events.Filter(ctx, query.Where().InStrings("_id", ids...))
	if err != nil {
		return nil, fmt.Errorf("booked events: %w", err)
	}
	for _, ev := range evs {
		dates[ev.ID] = ev.Date
	}
	return dates, nil
}

func bookingStatuses() []string {
	out := make([]string, len(domain.Blocking))
	for i, s := range domain.Blocking {
		out[i] = string(s)
	}
	return out
}

func holdStatuses() []string {
	out := make([]string, len(domain.Holding))
	for i, s := range domain.Holding {
		out[i] = string(s)
	}
	return out
}
