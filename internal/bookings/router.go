package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Purchases hang off the event they book into
	events := rg.Group("/events")
	{
		events.POST("/:id/purchase", controller.Purchase) // POST /api/v1/events/:id/purchase
	}
}

// Route definitions for reference:
//
// PURCHASE
// POST   /api/v1/events/:id/purchase
// Request body:
//   {
//     "section_id": "...",
//     "row_id": "...",
//     "number_of_tickets": 4,
//     "customer_info": { "name": "Jane", "email": "jane@example.com", "phone": "+1..." }
//   }
//
// Key flow:
// 1. Row lock for (event, section, row) is tried without waiting
// 2. Lowest-numbered free seats are assigned, all or none
// 3. Group discount is applied at 4+ tickets
// 4. Lock is released, then a BookingConfirmed notification is published
