package availability

import (
	"context"

	"enablers/internal/app/dto"
	"enablers/internal/app/queries"
	"enablers/internal/domain/shared/daterange"
)

const getNextAvailableKey = "availability.next"

type GetNextAvailableQuery struct {
	EnablerID string
	Days      int `validate:"gte=0,lte=366"`
}

func (q GetNextAvailableQuery) Key() string { return getNextAvailableKey }

type GetNextAvailableHandler struct {
	Service *Service
}

func (h *GetNextAvailableHandler) Handle(ctx context.Context, q GetNextAvailableQuery) (dto.NextAvailable, error) {
	days := q.Days
	if days <= 0 {
		days = h.Service.horizon()
	}
	next, ok, err := h.Service.NextAvailable(ctx, q.EnablerID, days)
	if err != nil {
		return dto.NextAvailable{}, err
	}
	out := dto.NextAvailable{EnablerID: q.EnablerID, Days: days}
	if ok {
		key := daterange.DayKey(next)
		out.Date = &key
	}
	return out, nil
}

var _ queries.Handler[GetNextAvailableQuery, dto.NextAvailable] = (*GetNextAvailableHandler)(nil)
