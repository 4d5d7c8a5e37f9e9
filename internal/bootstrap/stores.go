// Package bootstrap assembles the application from its configured drivers.
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"enablers/internal/domain/availability"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/notification"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/query"
	mongostore "enablers/internal/infra/db/mongo"
	"enablers/internal/infra/storage/memory"
)

// Stores are the entity collections of one storage driver.
type Stores struct {
	CalendarEvents query.Collection[availability.CalendarEvent]
	Bookings       query.Collection[availability.Booking]
	Holds          query.Collection[availability.Reservation]
	Rules          query.Collection[availability.Rule]
	Events         query.Collection[planning.Event]
	Enablers       query.Collection[enabler.Enabler]
	Notifications  query.Collection[notification.Notification]
}

func MemoryStores() Stores {
	holds := memory.NewCollection(func(r availability.Reservation) string { return r.ID }).
		WithUnique(func(r availability.Reservation) string { return r.SlotKey })
	return Stores{
		CalendarEvents: memory.NewCollection(func(e availability.CalendarEvent) string { return e.ID }),
		Bookings:       memory.NewCollection(func(b availability.Booking) string { return b.ID }),
		Holds:          holds,
		Rules:          memory.NewCollection(func(r availability.Rule) string { return r.ID }),
		Events:         memory.NewCollection(func(e planning.Event) string { return e.ID }),
		Enablers:       memory.NewCollection(func(e enabler.Enabler) string { return e.ID }),
		Notifications:  memory.NewCollection(func(n notification.Notification) string { return n.ID }),
	}
}

func MongoStores(db *mongo.Database) Stores {
	return Stores{
		CalendarEvents: mongostore.NewCollection[availability.CalendarEvent](db, mongostore.CalendarEvents),
		Bookings:       mongostore.NewCollection[availability.Booking](db, mongostore.Bookings),
		Holds:          mongostore.NewCollection[availability.Reservation](db, mongostore.Reservations),
		Rules:          mongostore.NewCollection[availability.Rule](db, mongostore.AvailabilityRules),
		Events:         mongostore.NewCollection[planning.Event](db, mongostore.Events),
		Enablers:       mongostore.NewCollection[enabler.Enabler](db, mongostore.Enablers),
		Notifications:  mongostore.NewCollection[notification.Notification](db, mongostore.Notifications),
	}
}
