package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	compatibilityapp "enablers/internal/app/handlers/compatibility"
	venueapp "enablers/internal/app/handlers/venue"
	"enablers/internal/app/queries"
)

type EventHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
}

type confirmVenueRequest struct {
	VenueEnablerID string `json:"venue_enabler_id"`
	Address        string `json:"address"`
}

func (h EventHandler) Compatibility(c *gin.Context) {
	q := compatibilityapp.CheckEnablerQuery{EventID: c.Param("id"), EnablerID: c.Param("enablerId")}
	result, err := queries.Ask[compatibilityapp.CheckEnablerQuery, dto.Compatibility](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h EventHandler) ConfirmVenue(c *gin.Context) {
	var req confirmVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := venueapp.ConfirmVenueCommand{EventID: c.Param("id"), VenueEnablerID: req.VenueEnablerID, Address: req.Address}
	result, err := commands.Dispatch[venueapp.ConfirmVenueCommand, dto.VenueConfirmation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ EventHTTP = EventHandler{}
