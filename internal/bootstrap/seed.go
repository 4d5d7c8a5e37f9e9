package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"enablers/internal/domain/availability"
	"enablers/internal/domain/enabler"
	"enablers/internal/domain/planning"
	"enablers/internal/domain/shared/query"
)

// Seed is the fixture file layout.
type Seed struct {
	Enablers       []enabler.Enabler            `json:"enablers"`
	Events         []planning.Event             `json:"events"`
	CalendarEvents []availability.CalendarEvent `json:"calendar_events"`
	Bookings       []availability.Booking       `json:"bookings"`
	Reservations   []availability.Reservation   `json:"reservations"`
	Rules          []availability.Rule          `json:"availability_rules"`
}

// LoadSeed imports fixtures from path. A missing file is not an error and
// records that already exist are skipped.
func LoadSeed(ctx context.Context, path string, stores Stores, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("seed file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	imported := 0
	imported += importAll(ctx, logger, "enabler", stores.Enablers, seed.Enablers)
	imported += importAll(ctx, logger, "event", stores.Events, normalizeEvents(seed.Events))
	imported += importAll(ctx, logger, "calendar_event", stores.CalendarEvents, seed.CalendarEvents)
	imported += importAll(ctx, logger, "booking", stores.Bookings, seed.Bookings)
	imported += importAll(ctx, logger, "reservation", stores.Holds, lockReservations(seed.Reservations))
	imported += importAll(ctx, logger, "availability_rule", stores.Rules, seed.Rules)
	logger.Info("seed imported", "path", path, "records", imported)
	return nil
}

func importAll[T any](ctx context.Context, logger *slog.Logger, kind string, dst query.Creator[T], items []T) int {
	n := 0
	for i, item := range items {
		if err := dst.Create(ctx, item); err != nil {
			logger.Debug("seed record skipped", "kind", kind, "index", i, "error", err)
			continue
		}
		n++
	}
	return n
}

func normalizeEvents(evs []planning.Event) []planning.Event {
	for i := range evs {
		if evs[i].VenueStatus == "" {
			evs[i].VenueStatus = evs[i].Status()
		}
	}
	return evs
}

func lockReservations(rs []availability.Reservation) []availability.Reservation {
	for i := range rs {
		rs[i].Lock()
	}
	return rs
}

// DefaultSeedPath returns the first fixture file found in the usual places.
func DefaultSeedPath() string {
	candidates := []string{
		filepath.Join("data", "seed.json"),
		filepath.Join("..", "..", "data", "seed.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
