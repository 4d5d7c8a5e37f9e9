package notification

import "time"

type Type string

const (
	TypeVenueConfirmed Type = "venue_confirmed"
)

// Notification is a message addressed to an enabler about a host event.
type Notification struct {
	ID          string    `bson:"_id" json:"id"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	EventID     string    `bson:"event_id" json:"event_id"`
	Type        Type      `bson:"type" json:"type"`
	Title       string    `bson:"title" json:"title"`
	Message     string    `bson:"message" json:"message"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
