package availability

import (
	"context"
	"time"

	"enablers/internal/app/dto"
	"enablers/internal/app/queries"
	"enablers/internal/domain/shared/daterange"
)

const getSummaryKey = "availability.summary"

type GetSummaryQuery struct {
	EnablerID string
	Start     time.Time
	Days      int `validate:"gte=0,lte=366"`
}

func (q GetSummaryQuery) Key() string { return getSummaryKey }

type GetSummaryHandler struct {
	Service *Service
}

func (h *GetSummaryHandler) Handle(ctx context.Context, q GetSummaryQuery) (dto.AvailabilitySummary, error) {
	start := q.Start
	if start.IsZero() {
		start = h.Service.now()
	}
	cal, err := h.Service.Summary(ctx, q.EnablerID, start, q.Days)
	if err != nil {
		return dto.AvailabilitySummary{}, err
	}
	return dto.MapSummary(q.EnablerID, daterange.DayKey(start), cal), nil
}

var _ queries.Handler[GetSummaryQuery, dto.AvailabilitySummary] = (*GetSummaryHandler)(nil)
