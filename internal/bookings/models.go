package bookings

import (
	"fmt"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/events"
)

const DefaultMaxTicketsPerBooking = 10

const customerRequiredMessage = "Customer information (name, email) is required"

func ticketRangeMessage(maxTickets int) string {
	return fmt.Sprintf("Number of tickets must be between 1 and %d", maxTickets)
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingRequest asks for TicketCount seats in one row of one section.
type BookingRequest struct {
	EventID     string
	SectionID   string
	RowID       string
	TicketCount int
	Customer    CustomerInfo
}

func (r BookingRequest) lockKey() LockKey {
	return LockKey{EventID: r.EventID, SectionID: r.SectionID, RowID: r.RowID}
}

// BookingResult describes a successful booking.
type BookingResult struct {
	Success         bool               `json:"success"`
	BookingID       string             `json:"booking_id"`
	EventID         string             `json:"event_id"`
	SectionID       string             `json:"section_id"`
	RowID           string             `json:"row_id"`
	BookedSeats     []events.SeatState `json:"booked_seats"`
	BaseAmount      float64            `json:"base_amount"`
	TotalAmount     float64            `json:"total_amount"`
	DiscountApplied bool               `json:"discount_applied"`
	DiscountAmount  float64            `json:"discount_amount"`
	Customer        CustomerInfo       `json:"customer"`
	BookedAt        time.Time          `json:"booked_at"`
}

// SeatNumbers lists the assigned seat numbers in order.
func (r *BookingResult) SeatNumbers() []int {
	numbers := make([]int, 0, len(r.BookedSeats))
	for _, seat := range r.BookedSeats {
		numbers = append(numbers, seat.Number)
	}
	return numbers
}
