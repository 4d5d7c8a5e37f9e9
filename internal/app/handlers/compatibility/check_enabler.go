package compatibility

import (
	"context"

	"enablers/internal/app/dto"
	"enablers/internal/app/queries"
)

const checkEnablerKey = "compatibility.check"

type CheckEnablerQuery struct {
	EventID   string
	EnablerID string
}

func (q CheckEnablerQuery) Key() string { return checkEnablerKey }

type CheckEnablerHandler struct {
	Checker *Checker
}

func (h *CheckEnablerHandler) Handle(ctx context.Context, q CheckEnablerQuery) (dto.Compatibility, error) {
	ev, err := h.Checker.Event(ctx, q.EventID)
	if err != nil {
		return dto.Compatibility{}, err
	}
	e, err := h.Checker.Enabler(ctx, q.EnablerID)
	if err != nil {
		return dto.Compatibility{}, err
	}
	return h.Checker.Check(ctx, ev, e), nil
}

var _ queries.Handler[CheckEnablerQuery, dto.Compatibility] = (*CheckEnablerHandler)(nil)
