package events

import (
	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	events := router.Group("/events")
	{
		events.GET("", controller.GetAllEvents)                     // GET /api/v1/events - Browse all events
		events.POST("", controller.CreateEvent)                     // POST /api/v1/events - Create event
		events.GET("/:id", controller.GetEvent)                     // GET /api/v1/events/:id - Get event details
		events.GET("/:id/availability", controller.GetAvailability) // GET /api/v1/events/:id/availability - Seat counts
	}
}
