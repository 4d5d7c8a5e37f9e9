package availability

import (
	"context"

	"enablers/internal/app/commands"
)

const invalidateKey = "availability.invalidate"

// InvalidateCommand drops cached availability of an enabler after a mutation
// made elsewhere.
type InvalidateCommand struct {
	EnablerID string
	Reason    string `validate:"max=200"`
}

func (c InvalidateCommand) Key() string { return invalidateKey }

type InvalidateHandler struct {
	Service *Service
}

func (h *InvalidateHandler) Handle(ctx context.Context, cmd InvalidateCommand) (struct{}, error) {
	return struct{}{}, h.Service.Invalidate(ctx, cmd.EnablerID)
}

var _ commands.Handler[InvalidateCommand, struct{}] = (*InvalidateHandler)(nil)
