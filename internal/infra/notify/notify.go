// Package notify delivers enabler notifications. Delivery is best effort:
// callers never wait for a slow channel.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"enablers/internal/app/policies"
	"enablers/internal/domain/notification"
	"enablers/internal/domain/shared/query"
)

// Store persists notifications so enablers see them in their inbox.
type Store struct {
	Notifications query.Creator[notification.Notification]
}

func (s Store) Notify(ctx context.Context, n notification.Notification) error {
	return s.Notifications.Create(ctx, n)
}

// Multi fans a notification out to every channel and joins their errors.
type Multi []policies.Notifier

func (m Multi) Notify(ctx context.Context, n notification.Notification) error {
	var errs []error
	for _, ch := range m {
		if err := ch.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Background runs each delivery on its own goroutine, detached from the
// caller's cancellation and bounded by Timeout. Failures are only logged.
type Background struct {
	Next    policies.Notifier
	Timeout time.Duration
	Logger  *slog.Logger

	wg sync.WaitGroup
}

func (b *Background) Notify(ctx context.Context, n notification.Notification) error {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	detached := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		if err := b.Next.Notify(ctx, n); err != nil && b.Logger != nil {
			b.Logger.WarnContext(ctx, "notification not delivered",
				"notification_id", n.ID, "recipient_id", n.RecipientID, "event_id", n.EventID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until queued deliveries finish or ctx is done.
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var (
	_ policies.Notifier = Store{}
	_ policies.Notifier = Multi{}
	_ policies.Notifier = (*Background)(nil)
)
