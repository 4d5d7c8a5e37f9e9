package policies

import (
	"context"

	"enablers/internal/domain/notification"
	"enablers/internal/domain/shared/events"
)

// Notifier delivers a notification to an enabler.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification) error
}

// EventPublisher ships recorded domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, evs []events.DomainEvent) error
}
