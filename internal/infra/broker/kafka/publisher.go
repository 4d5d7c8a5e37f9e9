package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"enablers/internal/app/outbox"
	"enablers/internal/app/policies"
	"enablers/internal/domain/notification"
	"enablers/internal/domain/shared/events"
)

// Publisher sends domain events as CloudEvents, one topic per event family.
type Publisher struct {
	Producer    *Producer
	TopicPrefix string
	Source      string
	Encoder     outbox.EventEncoder
}

func (p *Publisher) Publish(ctx context.Context, evs []events.DomainEvent) error {
	records, err := outbox.EncodeAll(p.Encoder, evs)
	if err != nil {
		return fmt.Errorf("kafka: encode events: %w", err)
	}
	var errs []error
	for _, rec := range records {
		payload, headers, err := outbox.Envelope(rec, p.Source)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		topic := outbox.TopicFor(p.TopicPrefix, rec.Name)
		if err := p.Producer.Publish(ctx, topic, rec.Aggregate, payload, headers); err != nil {
			errs = append(errs, fmt.Errorf("kafka: publish %s to %s: %w", rec.Name, topic, err))
		}
	}
	return errors.Join(errs...)
}

// Notifier hands notifications to the delivery service over kafka, keyed by
// recipient so one enabler's messages stay ordered.
type Notifier struct {
	Producer    *Producer
	TopicPrefix string
}

func (n *Notifier) Notify(ctx context.Context, msg notification.Notification) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	headers := map[string]string{"content-type": "application/json", "type": string(msg.Type)}
	return n.Producer.Publish(ctx, n.TopicPrefix+"notifications.v1", msg.RecipientID, payload, headers)
}

var (
	_ policies.EventPublisher = (*Publisher)(nil)
	_ policies.Notifier       = (*Notifier)(nil)
)
