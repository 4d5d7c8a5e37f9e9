package availability

import (
	"context"
	"time"

	"enablers/internal/app/dto"
	"enablers/internal/app/queries"
	"enablers/internal/domain/shared/daterange"
)

const getBlockedDatesKey = "availability.blocked"

// GetBlockedDatesQuery asks for occupied days in [Start, End]. A zero Start
// means today and a zero End covers the default horizon.
type GetBlockedDatesQuery struct {
	EnablerID string
	Start     time.Time
	End       time.Time
}

func (q GetBlockedDatesQuery) Key() string { return getBlockedDatesKey }

type GetBlockedDatesHandler struct {
	Service *Service
}

func (h *GetBlockedDatesHandler) Handle(ctx context.Context, q GetBlockedDatesQuery) (dto.BlockedDates, error) {
	start := q.Start
	if start.IsZero() {
		start = h.Service.now()
	}
	end := q.End
	if end.IsZero() {
		end = daterange.StartOfDay(start).AddDate(0, 0, h.Service.horizon()-1)
	}
	blocked, err := h.Service.BlockedDates(ctx, q.EnablerID, start, end)
	if err != nil {
		return dto.BlockedDates{}, err
	}
	return dto.BlockedDates{
		EnablerID: q.EnablerID,
		Start:     daterange.DayKey(start),
		End:       daterange.DayKey(end),
		Dates:     blocked.Keys(),
	}, nil
}

var _ queries.Handler[GetBlockedDatesQuery, dto.BlockedDates] = (*GetBlockedDatesHandler)(nil)
