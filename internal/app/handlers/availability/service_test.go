package availability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enablers/internal/app/policies"
	domain "enablers/internal/domain/availability"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/query"
)

type finderFunc[T any] func(ctx context.Context, q query.Query) ([]T, error)

func (f finderFunc[T]) Filter(ctx context.Context, q query.Query) ([]T, error) {
	return f(ctx, q)
}

func staticFinder[T any](calls *atomic.Int32, items ...T) finderFunc[T] {
	return func(context.Context, query.Query) ([]T, error) {
		if calls != nil {
			calls.Add(1)
		}
		return items, nil
	}
}

type mapCache struct {
	mu      sync.Mutex
	entries map[policies.CacheKey][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[policies.CacheKey][]byte)}
}

func (c *mapCache) Get(_ context.Context, key policies.CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key policies.CacheKey, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, enablerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.EnablerID == enablerID {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *mapCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[policies.CacheKey][]byte)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc        *Service
	cache      *mapCache
	loads      *atomic.Int32
	bookingErr error
}

func newFixture(today time.Time) *fixture {
	f := &fixture{cache: newMapCache(), loads: &atomic.Int32{}}
	sources := Sources{
		CalendarEvents: staticFinder(f.loads,
			domain.CalendarEvent{ID: "c1", EnablerID: "E1", StartDateTime: day(2024, 6, 3).Add(18 * time.Hour), Status: domain.CalendarConfirmed, EventType: domain.EventTypeBooking},
			domain.CalendarEvent{ID: "c2", EnablerID: "E1", StartDateTime: day(2024, 6, 4), Status: domain.CalendarPending, EventType: domain.EventTypeUnavailable},
		),
		Bookings: finderFunc[domain.Booking](func(ctx context.Context, q query.Query) ([]domain.Booking, error) {
			if f.bookingErr != nil {
				return nil, f.bookingErr
			}
			return []domain.Booking{{ID: "b1", EnablerID: "E1", EventID: "ev1", Status: domain.BookingConfirmed}}, nil
		}),
		Holds:  staticFinder[domain.Reservation](nil),
		Rules:  staticFinder(nil, domain.Rule{EnablerID: "E1", DaysOfWeek: []string{"friday"}, IsAvailable: true}),
		Events: staticFinder(nil, planning.Event{ID: "ev1", Date: day(2024, 6, 1)}),
	}
	f.svc = &Service{
		Sources: sources,
		Cache:   f.cache,
		TTL:     15 * time.Minute,
		Now:     func() time.Time { return today.Add(9 * time.Hour) },
		Logger:  discardLogger(),
	}
	return f
}

func TestSummaryDerivesDayStatuses(t *testing.T) {
	f := newFixture(day(2024, 5, 30))

	cal, err := f.svc.Summary(context.Background(), "E1", day(2024, 5, 30), 7)
	require.NoError(t, err)
	require.Len(t, cal, 7)

	assert.Equal(t, domain.ReasonCheckProvider, cal["2024-05-30"].Reason)
	assert.Equal(t, domain.ReasonAvailable, cal["2024-05-31"].Reason)
	assert.Equal(t, domain.StatusBooked, cal["2024-06-01"].Status)
	assert.Equal(t, domain.StatusBooked, cal["2024-06-03"].Status)
	assert.Equal(t, domain.StatusBlocked, cal["2024-06-04"].Status)
}

func TestSummaryServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(day(2024, 5, 30))
	ctx := context.Background()

	first, err := f.svc.Summary(ctx, "E1", day(2024, 5, 30), 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.loads.Load())

	second, err := f.svc.Summary(ctx, "E1", day(2024, 5, 30), 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.loads.Load(), "shorter window should be served from cache")
	assert.Len(t, second, 3)
	assert.Equal(t, first["2024-06-01"], second["2024-06-01"])

	_, err = f.svc.Summary(ctx, "E1", day(2024, 5, 30), 30)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.loads.Load(), "longer window is a miss")

	require.NoError(t, f.svc.Invalidate(ctx, "E1"))
	_, err = f.svc.Summary(ctx, "E1", day(2024, 5, 30), 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, f.loads.Load())
}

func TestDayLeavesSummaryCacheIntact(t *testing.T) {
	f := newFixture(day(2024, 5, 30))
	ctx := context.Background()

	_, err := f.svc.Summary(ctx, "E1", day(2024, 6, 3), 90)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.loads.Load())

	status, err := f.svc.Day(ctx, "E1", day(2024, 6, 3).Add(20*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, status.Status)
	assert.EqualValues(t, 1, f.loads.Load(), "served from the 90-day summary")

	status, err = f.svc.Day(ctx, "E1", day(2024, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, status.Status)
	assert.EqualValues(t, 2, f.loads.Load())
	_, stored := f.cache.Get(ctx, policies.SummaryKey("E1", "2024-06-04"))
	assert.False(t, stored, "single days are not cached")

	_, err = f.svc.Summary(ctx, "E1", day(2024, 6, 3), 90)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.loads.Load(), "the 90-day entry survived")
}

func TestMalformedCacheEntryIsAMiss(t *testing.T) {
	f := newFixture(day(2024, 5, 30))
	ctx := context.Background()
	require.NoError(t, f.cache.Set(ctx, policies.SummaryKey("E1", "2024-05-30"), []byte("{not json"), time.Minute))
	require.NoError(t, f.cache.Set(ctx, policies.NextKey("E1"), []byte(`[1,2]`), time.Minute))

	cal, err := f.svc.Summary(ctx, "E1", day(2024, 5, 30), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, cal["2024-06-01"].Status)

	next, ok, err := f.svc.NextAvailable(ctx, "E1", 90)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day(2024, 5, 30), next)
}

func TestNextAvailableStartsAtToday(t *testing.T) {
	f := newFixture(day(2024, 5, 30))

	next, ok, err := f.svc.NextAvailable(context.Background(), "E1", 90)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day(2024, 5, 30), next)

	raw, cached := f.cache.Get(context.Background(), policies.NextKey("E1"))
	require.True(t, cached)
	assert.JSONEq(t, `{"from":"2024-05-30","days":90,"date":"2024-05-30"}`, string(raw))
}

func TestNextAvailableSkipsOccupiedDays(t *testing.T) {
	f := newFixture(day(2024, 6, 3))

	next, ok, err := f.svc.NextAvailable(context.Background(), "E1", 90)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day(2024, 6, 5), next)

	_, ok, err = f.svc.NextAvailable(context.Background(), "E1", 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingFetchFailureFailsOpen(t *testing.T) {
	f := newFixture(day(2024, 5, 30))
	f.bookingErr = errors.New("backend unavailable")
	ctx := context.Background()

	blocked, err := f.svc.BlockedDates(ctx, "E1", day(2024, 5, 30), day(2024, 6, 30))
	require.NoError(t, err)
	assert.Empty(t, blocked)

	cal, err := f.svc.Summary(ctx, "E1", day(2024, 5, 30), 5)
	require.NoError(t, err)
	for _, d := range cal {
		assert.Equal(t, domain.StatusUnknown, d.Status)
		assert.True(t, d.CanBook)
	}

	next, ok, err := f.svc.NextAvailable(ctx, "E1", 90)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, day(2024, 5, 30), next)
	assert.Empty(t, f.cache.entries, "fail-open results must not be cached")
}

func TestBlockedDatesWindow(t *testing.T) {
	f := newFixture(day(2024, 5, 30))
	ctx := context.Background()

	blocked, err := f.svc.BlockedDates(ctx, "E1", day(2024, 6, 1), day(2024, 6, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01", "2024-06-03"}, blocked.Keys())

	_, err = f.svc.BlockedDates(ctx, "E1", day(2024, 6, 3), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestInvalidIDRejectedBeforeLoading(t *testing.T) {
	f := newFixture(day(2024, 5, 30))
	ctx := context.Background()

	_, err := f.svc.Summary(ctx, "undefined", day(2024, 5, 30), 5)
	assert.ErrorIs(t, err, enabler.ErrInvalidID)
	_, err = f.svc.BlockedDates(ctx, "", day(2024, 5, 30), day(2024, 5, 31))
	assert.ErrorIs(t, err, enabler.ErrInvalidID)
	_, _, err = f.svc.NextAvailable(ctx, "a b", 10)
	assert.ErrorIs(t, err, enabler.ErrInvalidID)
	assert.ErrorIs(t, f.svc.Invalidate(ctx, "null"), enabler.ErrInvalidID)

	assert.Zero(t, f.loads.Load())
}

func TestLoadResolvesBookedEventDates(t *testing.T) {
	var eventQueries []query.Query
	sources := Sources{
		CalendarEvents: staticFinder[domain.CalendarEvent](nil),
		Bookings: staticFinder(nil,
			domain.Booking{ID: "b1", EnablerID: "E1", EventID: "ev1", Status: domain.BookingConfirmed},
			domain.Booking{ID: "b2", EnablerID: "E1", EventID: "ev1", Status: domain.BookingInProgress},
			domain.Booking{ID: "b3", EnablerID: "E1", Status: domain.BookingConfirmed},
		),
		Holds: staticFinder[domain.Reservation](nil),
		Rules: staticFinder[domain.Rule](nil),
		Events: finderFunc[planning.Event](func(_ context.Context, q query.Query) ([]planning.Event, error) {
			eventQueries = append(eventQueries, q)
			return []planning.Event{{ID: "ev1", Date: day(2024, 6, 1)}}, nil
		}),
	}

	src, err := sources.Load(context.Background(), "E1")
	require.NoError(t, err)
	assert.Len(t, src.Bookings, 3)
	assert.Equal(t, day(2024, 6, 1), src.EventDates["ev1"])

	require.Len(t, eventQueries, 1)
	require.Len(t, eventQueries[0].Conditions, 1)
	assert.Equal(t, query.OpIn, eventQueries[0].Conditions[0].Op)
	assert.Equal(t, []any{"ev1"}, eventQueries[0].Conditions[0].Values)
}
