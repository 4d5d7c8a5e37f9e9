package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"enablers/internal/infra/config"
	"enablers/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Summary(c *gin.Context)
	Next(c *gin.Context)
	Blocked(c *gin.Context)
	Invalidate(c *gin.Context)
}

type BookingHTTP interface {
	PlaceHold(c *gin.Context)
	Record(c *gin.Context)
}

type EventHTTP interface {
	Compatibility(c *gin.Context)
	ConfirmVenue(c *gin.Context)
}

type Handlers struct {
	Availability AvailabilityHTTP
	Booking      BookingHTTP
	Event        EventHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the routes without touching the global gin mode.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		enablers := api.Group("/enablers/:id/availability")
		enablers.GET("", h.Availability.Summary)
		enablers.GET("/next", h.Availability.Next)
		enablers.GET("/blocked", h.Availability.Blocked)
		enablers.POST("/invalidate", h.Availability.Invalidate)
	}
	if h.Booking != nil {
		api.POST("/enablers/:id/holds", h.Booking.PlaceHold)
		api.POST("/bookings", h.Booking.Record)
	}
	if h.Event != nil {
		api.GET("/events/:id/compatibility/:enablerId", h.Event.Compatibility)
		api.POST("/events/:id/venue", h.Event.ConfirmVenue)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
