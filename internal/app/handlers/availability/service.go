package availability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"enablers/internal/app/policies"
	domain "enablers/internal/domain/availability"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/shared/daterange"
)

var ErrInvalidWindow = errors.New("availability: end must not be before start")

const DefaultCacheTTL = 15 * time.Minute

// Service answers availability questions for one enabler at a time.
//
// It fails open: when any source cannot be loaded the enabler is reported as
// unconstrained (unknown days that remain bookable, no blocked dates) and the
// failure is only logged. A flaky backend can therefore let a host book into a
// real conflict; callers that need certainty must confirm with the provider.
type Service struct {
	Sources Sources
	Cache   policies.AvailabilityCache
	TTL     time.Duration
	Horizon int
	Now     func() time.Time
	Logger  *slog.Logger
}

// Summary returns the status of days calendar days starting at start.
func (s *Service) Summary(ctx context.Context, enablerID string, start time.Time, days int) (domain.Calendar, error) {
	if err := enabler.ValidateID(enablerID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = s.horizon()
	}
	start = daterange.StartOfDay(start)
	key := policies.SummaryKey(enablerID, daterange.DayKey(start))
	if cal, ok := s.cachedSummary(ctx, key, start, days); ok {
		return cal, nil
	}

	src, err := s.Sources.Load(ctx, enablerID)
	if err != nil {
		s.failOpen(ctx, "summary", enablerID, err)
		return domain.UnknownCalendar(start, days), nil
	}
	cal := domain.Compute(enablerID, start, days, src, s.now())
	s.store(ctx, key, cal)
	return cal, nil
}

// Day returns the status of the single day containing date. It reads a
// cached summary starting that day but never stores one, so it cannot
// displace a longer window under the same key.
func (s *Service) Day(ctx context.Context, enablerID string, date time.Time) (domain.DayStatus, error) {
	if err := enabler.ValidateID(enablerID); err != nil {
		return domain.DayStatus{}, err
	}
	day := daterange.StartOfDay(date)
	k := daterange.DayKey(day)
	if cal, ok := s.cachedSummary(ctx, policies.SummaryKey(enablerID, k), day, 1); ok {
		return cal[k], nil
	}
	src, err := s.Sources.Load(ctx, enablerID)
	if err != nil {
		s.failOpen(ctx, "day", enablerID, err)
		return domain.UnknownCalendar(day, 1)[k], nil
	}
	return domain.Build(enablerID, src, s.now()).Day(day), nil
}

// BlockedDates returns the booked or blocked days in [start, end], end inclusive.
func (s *Service) BlockedDates(ctx context.Context, enablerID string, start, end time.Time) (domain.DaySet, error) {
	if err := enabler.ValidateID(enablerID); err != nil {
		return nil, err
	}
	if daterange.StartOfDay(end).Before(daterange.StartOfDay(start)) {
		return nil, ErrInvalidWindow
	}
	blocked, _ := s.blockedDates(ctx, enablerID, start, end)
	return blocked, nil
}

// NextAvailable scans days days from today, today included. ok is false when
// every day in the window is taken.
func (s *Service) NextAvailable(ctx context.Context, enablerID string, days int) (time.Time, bool, error) {
	if err := enabler.ValidateID(enablerID); err != nil {
		return time.Time{}, false, err
	}
	if days <= 0 {
		days = s.horizon()
	}
	today := daterange.StartOfDay(s.now())
	key := policies.NextKey(enablerID)
	if entry, ok := s.cachedNext(ctx, key); ok && entry.From == daterange.DayKey(today) && entry.Days == days {
		if entry.Date == nil {
			return time.Time{}, false, nil
		}
		if date, err := daterange.ParseDayKey(*entry.Date); err == nil {
			return date, true, nil
		}
	}

	blocked, loaded := s.blockedDates(ctx, enablerID, today, today.AddDate(0, 0, days-1))
	next, found := domain.NextAvailableDate(blocked, today, days)
	if loaded {
		entry := nextEntry{From: daterange.DayKey(today), Days: days}
		if found {
			k := daterange.DayKey(next)
			entry.Date = &k
		}
		s.store(ctx, key, entry)
	}
	return next, found, nil
}

// Invalidate drops every cached result of enablerID. Callers that mutate
// bookings, holds or calendar entries must call it; TTL expiry alone leaves
// stale reads.
func (s *Service) Invalidate(ctx context.Context, enablerID string) error {
	if err := enabler.ValidateID(enablerID); err != nil {
		return err
	}
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Invalidate(ctx, enablerID)
}

func (s *Service) blockedDates(ctx context.Context, enablerID string, start, end time.Time) (domain.DaySet, bool) {
	src, err := s.Sources.Load(ctx, enablerID)
	if err != nil {
		s.failOpen(ctx, "blocked dates", enablerID, err)
		return domain.DaySet{}, false
	}
	return domain.Build(enablerID, src, s.now()).BlockedDates(start, end), true
}

type nextEntry struct {
	From string  `json:"from"`
	Days int     `json:"days"`
	Date *string `json:"date"`
}

func (s *Service) cachedSummary(ctx context.Context, key policies.CacheKey, start time.Time, days int) (domain.Calendar, bool) {
	var cached domain.Calendar
	if !s.load(ctx, key, &cached) {
		return nil, false
	}
	out := make(domain.Calendar, days)
	for _, day := range daterange.Horizon(start, days).EachDay() {
		k := daterange.DayKey(day)
		status, ok := cached[k]
		if !ok || status.Date != k {
			return nil, false
		}
		out[k] = status
	}
	return out, true
}

func (s *Service) cachedNext(ctx context.Context, key policies.CacheKey) (nextEntry, bool) {
	var entry nextEntry
	if !s.load(ctx, key, &entry) {
		return nextEntry{}, false
	}
	return entry, entry.From != "" && entry.Days > 0
}

// load decodes a cached payload into dst. Undecodable payloads count as misses.
func (s *Service) load(ctx context.Context, key policies.CacheKey, dst any) bool {
	if s.Cache == nil {
		return false
	}
	raw, ok := s.Cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if s.Logger != nil {
			s.Logger.DebugContext(ctx, "discarding malformed availability cache entry", "key", key.String(), "error", err)
		}
		return false
	}
	return true
}

func (s *Service) store(ctx context.Context, key policies.CacheKey, value any) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.ttl()); err != nil && s.Logger != nil {
		s.Logger.WarnContext(ctx, "availability cache write failed", "key", key.String(), "error", err)
	}
}

func (s *Service) failOpen(ctx context.Context, op, enablerID string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.WarnContext(ctx, "availability sources unavailable, treating enabler as unconstrained",
		"op", op, "enabler_id", enablerID, "error", err)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultCacheTTL
	}
	return s.TTL
}

func (s *Service) horizon() int {
	if s.Horizon <= 0 {
		return domain.DefaultHorizonDays
	}
	return s.Horizon
}
