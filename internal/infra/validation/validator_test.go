package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"enablers/internal/app/handlers/availability"
	"enablers/internal/app/handlers/booking"
)

func TestValidate(t *testing.T) {
	v := New()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, availability.GetSummaryQuery{EnablerID: "E1", Days: 30}))
	assert.NoError(t, v.Validate(ctx, availability.GetNextAvailableQuery{EnablerID: "E1"}))

	err := v.Validate(ctx, availability.GetSummaryQuery{EnablerID: "E1", Days: 400})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorContains(t, err, "Days must be at most 366")

	err = v.Validate(ctx, booking.PlaceHoldCommand{EnablerID: "E1"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorContains(t, err, "Date is required")

	err = v.Validate(ctx, booking.RecordBookingCommand{EnablerID: "E1", EventID: "ev1", TotalAmount: -1})
	assert.ErrorContains(t, err, "TotalAmount must be at least 0")
}
