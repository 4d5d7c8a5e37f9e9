package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	domain "enablers/internal/domain/availability"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/shared/daterange"
	"enablers/internal/domain/shared/query"
)

const placeHoldKey = "booking.hold"

type PlaceHoldCommand struct {
	EnablerID string
	EventID   string
	Date      time.Time `validate:"required"`
}

func (c PlaceHoldCommand) Key() string { return placeHoldKey }

// PlaceHoldHandler relies on the store keeping SlotKey unique, so only one of
// several concurrent holds on a day can be created.
type PlaceHoldHandler struct {
	Holds query.Collection[domain.Reservation]
	TTL   time.Duration
	Deps
}

func (h *PlaceHoldHandler) Handle(ctx context.Context, cmd PlaceHoldCommand) (dto.Hold, error) {
	if err := enabler.ValidateID(cmd.EnablerID); err != nil {
		return dto.Hold{}, err
	}
	now := h.now()
	day := daterange.StartOfDay(cmd.Date)
	if day.Before(daterange.StartOfDay(now)) {
		return dto.Hold{}, ErrPastDate
	}
	blocked, err := h.Availability.BlockedDates(ctx, cmd.EnablerID, day, day)
	if err != nil {
		return dto.Hold{}, err
	}
	if blocked.Has(daterange.DayKey(day)) {
		return dto.Hold{}, fmt.Errorf("%w: %s on %s", ErrSlotUnavailable, cmd.EnablerID, daterange.DayKey(day))
	}

	ttl := h.TTL
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}
	hold := domain.Reservation{
		ID:        h.newID(),
		EnablerID: cmd.EnablerID,
		EventID:   cmd.EventID,
		SlotStart: day,
		Status:    domain.ReservationHold,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	hold.Lock()
	err = h.Holds.Create(ctx, hold)
	if errors.Is(err, query.ErrConflict) && h.releaseLapsed(ctx, hold.SlotKey, now) {
		err = h.Holds.Create(ctx, hold)
	}
	if errors.Is(err, query.ErrConflict) {
		return dto.Hold{}, fmt.Errorf("%w: %s on %s", ErrSlotUnavailable, cmd.EnablerID, daterange.DayKey(day))
	}
	if err != nil {
		return dto.Hold{}, fmt.Errorf("create hold: %w", err)
	}
	h.afterWrite(ctx, hold.EnablerID, domain.HoldPlaced{
		ReservationID: hold.ID,
		EnablerID:     hold.EnablerID,
		EventID:       hold.EventID,
		Date:          daterange.DayKey(day),
		ExpiresAt:     hold.ExpiresAt,
		At:            now,
	})
	return dto.MapHold(hold), nil
}

// releaseLapsed expires the hold occupying key when it has lapsed but was not
// swept yet. It reports whether the slot may be free now.
func (h *PlaceHoldHandler) releaseLapsed(ctx context.Context, key string, now time.Time) bool {
	current, ok, err := query.First[domain.Reservation](ctx, h.Holds, query.Where().Eq("slot_key", key))
	if err != nil || !ok {
		return err == nil
	}
	if current.Active(now) {
		return false
	}
	err = expire(ctx, h.Holds, current)
	return err == nil || errors.Is(err, query.ErrConflict)
}

var _ commands.Handler[PlaceHoldCommand, dto.Hold] = (*PlaceHoldHandler)(nil)
