package bookings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/apperrors"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/utils/response"
)

type Controller struct {
	service    Service
	maxTickets int
}

func NewController(service Service, maxTickets int) *Controller {
	if maxTickets <= 0 {
		maxTickets = DefaultMaxTicketsPerBooking
	}
	return &Controller{service: service, maxTickets: maxTickets}
}

// Purchase handles POST /api/v1/events/:id/purchase
func (c *Controller) Purchase(ctx *gin.Context) {
	var req PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		message := bindingMessage(err, c.maxTickets)
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil,
			response.ErrorDetail{Kind: string(apperrors.KindInvalidInput), Message: message})
		return
	}

	result, err := c.service.BookTickets(ctx.Request.Context(), req.ToBookingRequest(ctx.Param("id")))
	if err != nil {
		response.RespondError(ctx, err, "Failed to process booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tickets booked successfully", result, nil)
}
