// Package booking records engagements and soft holds on enabler calendars.
// Every write drops the enabler's cached availability before returning.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"enablers/internal/app/handlers/availability"
	"enablers/internal/app/policies"
	"enablers/internal/domain/shared/events"
)

var (
	ErrSlotUnavailable = errors.New("booking: slot is not available")
	ErrPastDate        = errors.New("booking: date is in the past")
)

const DefaultHoldTTL = 30 * time.Minute

// Deps are shared by the booking handlers.
type Deps struct {
	Availability *availability.Service
	Publisher    policies.EventPublisher
	Now          func() time.Time
	NewID        func() string
	Logger       *slog.Logger
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

// afterWrite invalidates and publishes. Both are best effort: the write has
// already happened and the cache TTL bounds staleness.
func (d Deps) afterWrite(ctx context.Context, enablerID string, evs ...events.DomainEvent) {
	if err := d.Availability.Invalidate(ctx, enablerID); err != nil && d.Logger != nil {
		d.Logger.WarnContext(ctx, "availability invalidation failed", "enabler_id", enablerID, "error", err)
	}
	if d.Publisher == nil || len(evs) == 0 {
		return
	}
	if err := d.Publisher.Publish(ctx, evs); err != nil && d.Logger != nil {
		d.Logger.WarnContext(ctx, "booking events not published", "enabler_id", enablerID, "error", err)
	}
}
