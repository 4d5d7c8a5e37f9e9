// Package worker runs periodic maintenance commands.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"enablers/internal/app/commands"
	bookingapp "enablers/internal/app/handlers/booking"
)

var ErrWorkerNotConfigured = errors.New("worker: bus required")

// HoldSweeper expires lapsed holds on every tick.
type HoldSweeper struct {
	Commands commands.Bus
	Interval time.Duration
	Batch    int
	Logger   *slog.Logger
}

func (w *HoldSweeper) Run(ctx context.Context) error {
	if w.Commands == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sweepOnce(ctx)
		}
	}
}

func (w *HoldSweeper) sweepOnce(ctx context.Context) {
	res, err := commands.Dispatch[bookingapp.ExpireHoldsCommand, bookingapp.ExpireHoldsResult](ctx, w.Commands, bookingapp.ExpireHoldsCommand{Batch: w.Batch})
	if w.Logger == nil {
		return
	}
	if err != nil {
		w.Logger.WarnContext(ctx, "hold sweep failed", "error", err)
		return
	}
	if res.Expired > 0 {
		w.Logger.InfoContext(ctx, "holds expired", "count", res.Expired, "enablers", res.Enablers)
	}
}

func (w *HoldSweeper) interval() time.Duration {
	if w.Interval <= 0 {
		return time.Minute
	}
	return w.Interval
}
