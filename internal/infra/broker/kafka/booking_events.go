package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"enablers/internal/app/commands"
	"enablers/internal/app/handlers/availability"
	"enablers/internal/app/outbox"
)

// BookingTopics are the topics whose events change enabler calendars.
func BookingTopics(prefix string) []string {
	return []string{outbox.TopicFor(prefix, "booking"), outbox.TopicFor(prefix, "calendar")}
}

// Inbox deduplicates redelivered messages.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// BookingEventsHandler invalidates cached availability when another service
// changes a booking, hold or calendar entry.
type BookingEventsHandler struct {
	Bus    commands.Bus
	Inbox  Inbox
	Logger *slog.Logger
}

type enablerRef struct {
	EnablerID string `json:"enabler_id"`
}

func (h *BookingEventsHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt outbox.CloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		h.skip(ctx, msg, "not a cloudevent", err)
		return nil
	}
	if !strings.HasPrefix(evt.Type, "booking.") && !strings.HasPrefix(evt.Type, "calendar.") {
		return nil
	}
	var ref enablerRef
	if err := json.Unmarshal(evt.Data, &ref); err != nil || ref.EnablerID == "" {
		h.skip(ctx, msg, "event without enabler_id", err)
		return nil
	}
	if h.Inbox != nil && evt.ID != "" {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return fmt.Errorf("inbox: %w", err)
		}
		if seen {
			return nil
		}
	}
	_, err := commands.Dispatch[availability.InvalidateCommand, struct{}](ctx, h.Bus, availability.InvalidateCommand{
		EnablerID: ref.EnablerID,
		Reason:    evt.Type,
	})
	return err
}

func (h *BookingEventsHandler) skip(ctx context.Context, msg *sarama.ConsumerMessage, why string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.DebugContext(ctx, "skipping kafka message", "reason", why, "topic", msg.Topic, "offset", msg.Offset, "error", err)
}

var _ MessageHandler = (*BookingEventsHandler)(nil)
