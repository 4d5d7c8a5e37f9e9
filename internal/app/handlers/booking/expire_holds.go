package booking

import (
	"context"
	"errors"
	"fmt"

	"enablers/internal/app/commands"
	domain "enablers/internal/domain/availability"
	"enablers/internal/domain/shared/query"
)

const expireHoldsKey = "booking.expire_holds"

// ExpireHoldsCommand marks lapsed holds EXPIRED. Lapsed holds already stop
// blocking on read; this keeps the store honest and drops stale cache entries.
type ExpireHoldsCommand struct {
	Batch int `validate:"gte=0,lte=1000"`
}

func (c ExpireHoldsCommand) Key() string { return expireHoldsKey }

type ExpireHoldsResult struct {
	Expired  int
	Enablers int
}

type ExpireHoldsHandler struct {
	Holds interface {
		query.Finder[domain.Reservation]
		query.GuardedUpdater[domain.Reservation]
	}
	Deps
}

func (h *ExpireHoldsHandler) Handle(ctx context.Context, cmd ExpireHoldsCommand) (ExpireHoldsResult, error) {
	now := h.now()
	// Holds without an expiry have no expires_at and never match.
	q := query.Where().
		Eq("status", domain.ReservationHold).
		Lt("expires_at", now).
		SortBy("expires_at", false)
	if cmd.Batch > 0 {
		q = q.Limit(cmd.Batch)
	}
	holds, err := h.Holds.Filter(ctx, q)
	if err != nil {
		return ExpireHoldsResult{}, fmt.Errorf("list holds: %w", err)
	}

	touched := make(map[string]struct{})
	var res ExpireHoldsResult
	for _, hold := range holds {
		if hold.Active(now) {
			continue
		}
		if err := expire(ctx, h.Holds, hold); err != nil {
			if errors.Is(err, query.ErrConflict) {
				// Released or confirmed since it was listed.
				continue
			}
			return res, fmt.Errorf("expire hold %s: %w", hold.ID, err)
		}
		res.Expired++
		touched[hold.EnablerID] = struct{}{}
	}
	for enablerID := range touched {
		h.afterWrite(ctx, enablerID)
	}
	res.Enablers = len(touched)
	return res, nil
}

// expire marks hold EXPIRED and frees its day, unless it changed since read.
func expire(ctx context.Context, holds query.GuardedUpdater[domain.Reservation], hold domain.Reservation) error {
	guard := query.Where().Eq("status", domain.ReservationHold)
	hold.Status = domain.ReservationExpired
	hold.Lock()
	return holds.UpdateIf(ctx, hold.ID, guard, hold)
}

var _ commands.Handler[ExpireHoldsCommand, ExpireHoldsResult] = (*ExpireHoldsHandler)(nil)
