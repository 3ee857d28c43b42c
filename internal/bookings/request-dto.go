package bookings

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomerInfoRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

// PurchaseRequest is the body of POST /events/:id/purchase.
// The upper ticket bound is configurable and enforced by the service.
type PurchaseRequest struct {
	SectionID       string               `json:"section_id" binding:"required"`
	RowID           string               `json:"row_id" binding:"required"`
	NumberOfTickets int                  `json:"number_of_tickets" binding:"required,min=1"`
	CustomerInfo    *CustomerInfoRequest `json:"customer_info" binding:"required"`
}

func (r PurchaseRequest) ToBookingRequest(eventID string) BookingRequest {
	req := BookingRequest{
		EventID:     eventID,
		SectionID:   r.SectionID,
		RowID:       r.RowID,
		TicketCount: r.NumberOfTickets,
	}
	if r.CustomerInfo != nil {
		req.Customer = CustomerInfo{
			Name:  strings.TrimSpace(r.CustomerInfo.Name),
			Email: strings.TrimSpace(r.CustomerInfo.Email),
			Phone: strings.TrimSpace(r.CustomerInfo.Phone),
		}
	}
	return req
}

// bindingMessage turns a binding failure into the message returned to the
// client. Missing identifiers take precedence over other problems.
func bindingMessage(err error, maxTickets int) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "Invalid request body"
	}

	var missing []string
	other := ""
	for _, fe := range fieldErrs {
		msg := ""
		switch fe.StructField() {
		case "SectionID":
			missing = append(missing, "section_id")
		case "RowID":
			missing = append(missing, "row_id")
		case "NumberOfTickets":
			if fe.Tag() == "required" {
				missing = append(missing, "number_of_tickets")
			} else {
				msg = ticketRangeMessage(maxTickets)
			}
		case "Email":
			if fe.Tag() == "email" {
				msg = "Invalid customer email address"
			} else {
				msg = customerRequiredMessage
			}
		case "CustomerInfo", "Name":
			msg = customerRequiredMessage
		default:
			msg = "Invalid field: " + fe.Field()
		}
		if other == "" {
			other = msg
		}
	}

	if len(missing) > 0 {
		return "Missing required fields: " + strings.Join(missing, ", ")
	}
	return other
}
