package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names of the entity store.
const (
	CalendarEvents    = "calendar_events"
	Bookings          = "bookings"
	Reservations      = "reservations"
	AvailabilityRules = "availability_rules"
	Events            = "events"
	Enablers          = "enablers"
	Notifications     = "notifications"
)

type Client struct {
	DB *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes the availability queries rely on.
// Failures are returned but leave the store usable.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	byEnabler := []string{CalendarEvents, Bookings, Reservations, AvailabilityRules}
	for _, name := range byEnabler {
		if _, err := c.DB.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bsonKeys("enabler_id", "status"),
		}); err != nil {
			return err
		}
	}
	// One live reservation per enabler day; released reservations drop slot_key.
	if _, err := c.DB.Collection(Reservations).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bsonKeys("slot_key"),
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"slot_key": bson.M{"$exists": true}}),
	}); err != nil {
		return err
	}
	_, err := c.DB.Collection(Bookings).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bsonKeys("event_id")})
	return err
}
