// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/bookings"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/events"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/notifications"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/config"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/database"

	"github.com/gin-gonic/gin"
)

const serviceName = "event-ticket-booking"

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	eventRepo      events.Repository
	eventService   events.Service
	bookingService bookings.Service
}

// NewRouter wires the in-memory catalog and the booking engine. The catalog is
// owned here and shared by both services.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	eventRepo := events.NewRepository()
	locks := bookings.NewLockRegistry(cfg.Booking.LockLeaseTTL)

	opts := []bookings.Option{bookings.WithMaxTickets(cfg.Booking.MaxTicketsPerBooking)}
	if publisher != nil {
		opts = append(opts, bookings.WithPublisher(publisher))
	}

	return &Router{
		config:         cfg,
		db:             db,
		eventRepo:      eventRepo,
		eventService:   events.NewService(eventRepo),
		bookingService: bookings.NewService(eventRepo, locks, opts...),
	}
}

// SeedSampleEvents loads the built-in sample events into the catalog
func (r *Router) SeedSampleEvents(ctx context.Context) error {
	return r.eventService.SeedSampleEvents(ctx)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEventRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"events":      r.eventRepo.Count(),
			"timestamp":   time.Now(),
		})
	})
}

// setupEventRoutes configures catalog routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventController := events.NewController(r.eventService)
	events.SetupEventRoutes(rg, eventController)
}

// setupBookingRoutes configures ticket purchase routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingController := bookings.NewController(r.bookingService, r.config.Booking.MaxTicketsPerBooking)
	bookings.SetupBookingRoutes(rg, bookingController)
}
