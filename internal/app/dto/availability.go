package dto

import (
	"enablers/internal/domain/availability"
)

type AvailabilitySummary struct {
	EnablerID string                   `json:"enabler_id"`
	Start     string                   `json:"start"`
	Days      []availability.DayStatus `json:"days"`
	Counts    map[string]int           `json:"counts"`
}

func MapSummary(enablerID, start string, cal availability.Calendar) AvailabilitySummary {
	counts := make(map[string]int)
	for status, n := range cal.Counts() {
		counts[string(status)] = n
	}
	return AvailabilitySummary{
		EnablerID: enablerID,
		Start:     start,
		Days:      cal.Ordered(),
		Counts:    counts,
	}
}

// NextAvailable carries a nil Date when nothing is free inside the window.
type NextAvailable struct {
	EnablerID string  `json:"enabler_id"`
	Date      *string `json:"date"`
	Days      int     `json:"days_checked"`
}

type BlockedDates struct {
	EnablerID string   `json:"enabler_id"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Dates     []string `json:"dates"`
}
