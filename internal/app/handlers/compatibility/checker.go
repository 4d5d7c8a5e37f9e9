package compatibility

import (
	"context"
	"fmt"

	"enablers/internal/app/dto"
	"enablers/internal/app/handlers/availability"
	domainavail "enablers/internal/domain/availability"
	domain "enablers/internal/domain/compatibility"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/query"
)

// Checker evaluates enablers against host events and, when the event is
// dated, against the enabler's availability on that day.
type Checker struct {
	Enablers     query.Finder[enabler.Enabler]
	Events       query.Finder[planning.Event]
	Availability *availability.Service
}

func (c *Checker) Enabler(ctx context.Context, id string) (enabler.Enabler, error) {
	if err := enabler.ValidateID(id); err != nil {
		return enabler.Enabler{}, err
	}
	e, ok, err := query.First(ctx, c.Enablers, query.ByID(id))
	if err != nil {
		return enabler.Enabler{}, fmt.Errorf("load enabler %s: %w", id, err)
	}
	if !ok {
		return enabler.Enabler{}, fmt.Errorf("%w: %s", enabler.ErrNotFound, id)
	}
	return e, nil
}

func (c *Checker) Event(ctx context.Context, id string) (*planning.Event, error) {
	if err := planning.ValidateEventID(id); err != nil {
		return nil, err
	}
	ev, ok, err := query.First(ctx, c.Events, query.ByID(id))
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", planning.ErrEventNotFound, id)
	}
	return &ev, nil
}

// Check builds the verdict of e for ev. An availability lookup that fails
// leaves the verdict without an availability badge.
func (c *Checker) Check(ctx context.Context, ev *planning.Event, e enabler.Enabler) dto.Compatibility {
	verdict := domain.Evaluate(e, domain.RequirementsFor(ev))
	out := dto.Compatibility{
		EnablerID: e.ID,
		EventID:   ev.ID,
		Category:  e.Category,
		CanOffer:  ev.CanOffer(e.Category),
	}
	if !ev.Date.IsZero() && c.Availability != nil {
		if day, err := c.Availability.Day(ctx, e.ID, ev.Date); err == nil && day.Date != "" {
			verdict.AddBadge(availabilityBadge(day))
			out.Availability = &day
		}
	}
	out.Verdict = verdict
	return out
}

func availabilityBadge(day domainavail.DayStatus) domain.Badge {
	if day.Occupied() {
		return domain.Badge{Type: domain.BadgeNegative, Icon: "calendar-x", Text: "Booked on your date"}
	}
	if day.Status == domainavail.StatusUnknown {
		return domain.Badge{Type: domain.BadgeInfo, Icon: "calendar", Text: "Availability unknown on your date"}
	}
	return domain.Badge{Type: domain.BadgePositive, Icon: "calendar-check", Text: "Available on your date"}
}
