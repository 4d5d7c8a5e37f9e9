package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"enablers/internal/app/handlers/availability"
	"enablers/internal/app/handlers/booking"
	"enablers/internal/app/handlers/venue"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/daterange"
	"enablers/internal/infra/validation"
)

var statusByError = []struct {
	err    error
	status int
}{
	{validation.ErrValidation, http.StatusBadRequest},
	{enabler.ErrInvalidID, http.StatusBadRequest},
	{planning.ErrInvalidEventID, http.StatusBadRequest},
	{planning.ErrVenueLocationRequired, http.StatusBadRequest},
	{daterange.ErrInvalidDayKey, http.StatusBadRequest},
	{daterange.ErrInvalidRange, http.StatusBadRequest},
	{availability.ErrInvalidWindow, http.StatusBadRequest},
	{booking.ErrPastDate, http.StatusBadRequest},
	{venue.ErrNotVenueEnabler, http.StatusUnprocessableEntity},
	{enabler.ErrNotFound, http.StatusNotFound},
	{planning.ErrEventNotFound, http.StatusNotFound},
	{planning.ErrInvalidTransition, http.StatusConflict},
	{booking.ErrSlotUnavailable, http.StatusConflict},
}

func statusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Internal errors are recorded on the
// context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
