package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	availabilityapp "enablers/internal/app/handlers/availability"
	"enablers/internal/app/queries"
	"enablers/internal/domain/shared/daterange"
)

type AvailabilityHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
}

func (h AvailabilityHandler) Summary(c *gin.Context) {
	start, ok := dayParam(c, "start")
	if !ok {
		return
	}
	days, ok := intParam(c, "days")
	if !ok {
		return
	}
	q := availabilityapp.GetSummaryQuery{EnablerID: c.Param("id"), Start: start, Days: days}
	result, err := queries.Ask[availabilityapp.GetSummaryQuery, dto.AvailabilitySummary](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Next(c *gin.Context) {
	days, ok := intParam(c, "days")
	if !ok {
		return
	}
	q := availabilityapp.GetNextAvailableQuery{EnablerID: c.Param("id"), Days: days}
	result, err := queries.Ask[availabilityapp.GetNextAvailableQuery, dto.NextAvailable](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Blocked(c *gin.Context) {
	start, ok := dayParam(c, "start")
	if !ok {
		return
	}
	end, ok := dayParam(c, "end")
	if !ok {
		return
	}
	q := availabilityapp.GetBlockedDatesQuery{EnablerID: c.Param("id"), Start: start, End: end}
	result, err := queries.Ask[availabilityapp.GetBlockedDatesQuery, dto.BlockedDates](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Invalidate(c *gin.Context) {
	cmd := availabilityapp.InvalidateCommand{EnablerID: c.Param("id"), Reason: "api"}
	if _, err := commands.Dispatch[availabilityapp.InvalidateCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// dayParam reads an optional YYYY-MM-DD query parameter.
func dayParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	day, err := daterange.ParseDayKey(raw)
	if err != nil {
		badRequest(c, err)
		return time.Time{}, false
	}
	return day, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
