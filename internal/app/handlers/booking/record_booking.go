package booking

import (
	"context"
	"fmt"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	"enablers/internal/app/handlers/compatibility"
	domain "enablers/internal/domain/availability"
	"enablers/internal/domain/shared/query"
)

const recordBookingKey = "booking.record"

type RecordBookingCommand struct {
	EnablerID   string
	EventID     string
	HostID      string
	TotalAmount float64 `validate:"gte=0"`
}

func (c RecordBookingCommand) Key() string { return recordBookingKey }

// RecordBookingHandler stores a confirmed engagement. The event must exist
// since its date is what the booking blocks.
type RecordBookingHandler struct {
	Bookings query.Creator[domain.Booking]
	Checker  *compatibility.Checker
	Deps
}

func (h *RecordBookingHandler) Handle(ctx context.Context, cmd RecordBookingCommand) (dto.Booking, error) {
	e, err := h.Checker.Enabler(ctx, cmd.EnablerID)
	if err != nil {
		return dto.Booking{}, err
	}
	ev, err := h.Checker.Event(ctx, cmd.EventID)
	if err != nil {
		return dto.Booking{}, err
	}
	hostID := cmd.HostID
	if hostID == "" {
		hostID = ev.HostID
	}

	now := h.now()
	b := domain.Booking{
		ID:          h.newID(),
		EnablerID:   e.ID,
		EventID:     ev.ID,
		HostID:      hostID,
		Status:      domain.BookingConfirmed,
		TotalAmount: cmd.TotalAmount,
		CreatedAt:   now,
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return dto.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	h.afterWrite(ctx, b.EnablerID, domain.BookingRecorded{
		BookingID: b.ID,
		EnablerID: b.EnablerID,
		EventID:   b.EventID,
		Status:    string(b.Status),
		At:        now,
	})
	return dto.MapBooking(b), nil
}

var _ commands.Handler[RecordBookingCommand, dto.Booking] = (*RecordBookingHandler)(nil)
