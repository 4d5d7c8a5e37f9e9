package dto

import (
	"enablers/internal/domain/availability"
	"enablers/internal/domain/compatibility"
)

type Compatibility struct {
	EnablerID    string                  `json:"enabler_id"`
	EventID      string                  `json:"event_id"`
	Category     string                  `json:"category"`
	CanOffer     bool                    `json:"can_offer"`
	Verdict      compatibility.Verdict   `json:"verdict"`
	Availability *availability.DayStatus `json:"availability,omitempty"`
}
