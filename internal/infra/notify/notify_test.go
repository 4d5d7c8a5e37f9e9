package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enablers/internal/domain/notification"
	"enablers/internal/infra/storage/memory"
)

type notifierFunc func(ctx context.Context, n notification.Notification) error

func (f notifierFunc) Notify(ctx context.Context, n notification.Notification) error {
	return f(ctx, n)
}

func TestMultiJoinsErrors(t *testing.T) {
	store := memory.NewCollection(func(n notification.Notification) string { return n.ID })
	boom := errors.New("boom")
	m := Multi{Store{Notifications: store}, notifierFunc(func(context.Context, notification.Notification) error { return boom })}

	err := m.Notify(context.Background(), notification.Notification{ID: "n1", RecipientID: "E1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.Len())
}

func TestBackgroundDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var got []string
	b := &Background{
		Timeout: time.Second,
		Next: notifierFunc(func(ctx context.Context, n notification.Notification) error {
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
			mu.Lock()
			got = append(got, n.ID)
			mu.Unlock()
			return nil
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.Notify(ctx, notification.Notification{ID: "n1"}))
	cancel()
	close(release)

	waitCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	require.NoError(t, b.Wait(waitCtx))
	assert.Equal(t, []string{"n1"}, got, "caller cancellation must not abort delivery")
}

func TestBackgroundTimesOutSlowChannels(t *testing.T) {
	errCh := make(chan error, 1)
	b := &Background{
		Timeout: 20 * time.Millisecond,
		Next: notifierFunc(func(ctx context.Context, _ notification.Notification) error {
			<-ctx.Done()
			errCh <- ctx.Err()
			return ctx.Err()
		}),
	}
	require.NoError(t, b.Notify(context.Background(), notification.Notification{ID: "n1"}))
	require.NoError(t, b.Wait(context.Background()))
	assert.ErrorIs(t, <-errCh, context.DeadlineExceeded)
}
