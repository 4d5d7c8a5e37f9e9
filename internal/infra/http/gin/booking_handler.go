package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	bookingapp "enablers/internal/app/handlers/booking"
	"enablers/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Commands commands.Bus
}

type placeHoldRequest struct {
	Date    string `json:"date" binding:"required"`
	EventID string `json:"event_id"`
}

type recordBookingRequest struct {
	EnablerID   string  `json:"enabler_id" binding:"required"`
	EventID     string  `json:"event_id" binding:"required"`
	HostID      string  `json:"host_id"`
	TotalAmount float64 `json:"total_amount"`
}

func (h BookingHandler) PlaceHold(c *gin.Context) {
	var req placeHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	day, err := daterange.ParseDayKey(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.PlaceHoldCommand{EnablerID: c.Param("id"), EventID: req.EventID, Date: day}
	result, err := commands.Dispatch[bookingapp.PlaceHoldCommand, dto.Hold](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Record(c *gin.Context) {
	var req recordBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.RecordBookingCommand{
		EnablerID:   req.EnablerID,
		EventID:     req.EventID,
		HostID:      req.HostID,
		TotalAmount: req.TotalAmount,
	}
	result, err := commands.Dispatch[bookingapp.RecordBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ BookingHTTP = BookingHandler{}
