package bootstrap

import (
	"log/slog"
	"time"

	"enablers/internal/app/commands"
	"enablers/internal/app/dto"
	availabilityapp "enablers/internal/app/handlers/availability"
	bookingapp "enablers/internal/app/handlers/booking"
	compatibilityapp "enablers/internal/app/handlers/compatibility"
	venueapp "enablers/internal/app/handlers/venue"
	"enablers/internal/app/middleware"
	"enablers/internal/app/policies"
	"enablers/internal/app/queries"
	ginserver "enablers/internal/infra/http/gin"
	"enablers/internal/infra/validation"
)

// Options carries everything Build needs besides the stores.
type Options struct {
	Cache       policies.AvailabilityCache
	Publisher   policies.EventPublisher
	Notifier    policies.Notifier
	CacheTTL    time.Duration
	HorizonDays int
	HoldTTL     time.Duration
	Now         func() time.Time
	Logger      *slog.Logger
}

// Application is the wired command and query side.
type Application struct {
	Commands     commands.Bus
	Queries      queries.Bus
	Availability *availabilityapp.Service
	Handlers     ginserver.Handlers
}

func Build(stores Stores, opts Options) *Application {
	svc := &availabilityapp.Service{
		Sources: availabilityapp.Sources{
			CalendarEvents: stores.CalendarEvents,
			Bookings:       stores.Bookings,
			Holds:          stores.Holds,
			Rules:          stores.Rules,
			Events:         stores.Events,
		},
		Cache:   opts.Cache,
		TTL:     opts.CacheTTL,
		Horizon: opts.HorizonDays,
		Now:     opts.Now,
		Logger:  opts.Logger,
	}
	checker := &compatibilityapp.Checker{
		Enablers:     stores.Enablers,
		Events:       stores.Events,
		Availability: svc,
	}
	bookingDeps := bookingapp.Deps{
		Availability: svc,
		Publisher:    opts.Publisher,
		Now:          opts.Now,
		Logger:       opts.Logger,
	}

	commandBus := commands.NewInMemoryBus()
	commands.Register[availabilityapp.InvalidateCommand, struct{}](commandBus, &availabilityapp.InvalidateHandler{Service: svc})
	commands.Register[bookingapp.PlaceHoldCommand, dto.Hold](commandBus, &bookingapp.PlaceHoldHandler{Holds: stores.Holds, TTL: opts.HoldTTL, Deps: bookingDeps})
	commands.Register[bookingapp.ExpireHoldsCommand, bookingapp.ExpireHoldsResult](commandBus, &bookingapp.ExpireHoldsHandler{Holds: stores.Holds, Deps: bookingDeps})
	commands.Register[bookingapp.RecordBookingCommand, dto.Booking](commandBus, &bookingapp.RecordBookingHandler{Bookings: stores.Bookings, Checker: checker, Deps: bookingDeps})
	commands.Register[venueapp.ConfirmVenueCommand, dto.VenueConfirmation](commandBus, &venueapp.ConfirmVenueHandler{
		Events:    stores.Events,
		Bookings:  stores.Bookings,
		Checker:   checker,
		Notifier:  opts.Notifier,
		Publisher: opts.Publisher,
		Now:       opts.Now,
		Logger:    opts.Logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.Register[availabilityapp.GetSummaryQuery, dto.AvailabilitySummary](queryBus, &availabilityapp.GetSummaryHandler{Service: svc})
	queries.Register[availabilityapp.GetNextAvailableQuery, dto.NextAvailable](queryBus, &availabilityapp.GetNextAvailableHandler{Service: svc})
	queries.Register[availabilityapp.GetBlockedDatesQuery, dto.BlockedDates](queryBus, &availabilityapp.GetBlockedDatesHandler{Service: svc})
	queries.Register[compatibilityapp.CheckEnablerQuery, dto.Compatibility](queryBus, &compatibilityapp.CheckEnablerHandler{Checker: checker})

	v := validation.New()
	cmds := middleware.ChainCommands(commandBus, middleware.Logging(opts.Logger), middleware.Validation(v))
	qs := middleware.ChainQueries(queryBus, middleware.QueryLogging(opts.Logger), middleware.QueryValidation(v))

	return &Application{
		Commands:     cmds,
		Queries:      qs,
		Availability: svc,
		Handlers: ginserver.Handlers{
			Availability: ginserver.AvailabilityHandler{Queries: qs, Commands: cmds},
			Booking:      ginserver.BookingHandler{Commands: cmds},
			Event:        ginserver.EventHandler{Queries: qs, Commands: cmds},
		},
	}
}
