package dto

import (
	"time"

	"enablers/internal/domain/availability"
	"enablers/internal/domain/shared/daterange"
)

type Booking struct {
	ID          string    `json:"id"`
	EnablerID   string    `json:"enabler_id"`
	EventID     string    `json:"event_id"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func MapBooking(b availability.Booking) Booking {
	return Booking{
		ID:          b.ID,
		EnablerID:   b.EnablerID,
		EventID:     b.EventID,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
	}
}

type Hold struct {
	ID        string    `json:"id"`
	EnablerID string    `json:"enabler_id"`
	EventID   string    `json:"event_id,omitempty"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

func MapHold(r availability.Reservation) Hold {
	return Hold{
		ID:        r.ID,
		EnablerID: r.EnablerID,
		EventID:   r.EventID,
		Date:      daterange.DayKey(r.SlotStart),
		Status:    string(r.Status),
		ExpiresAt: r.ExpiresAt,
	}
}
