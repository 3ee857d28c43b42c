package notifications

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
)

// BookingConfirmed is emitted once per successful booking.
type BookingConfirmed struct {
	Type NotificationType `json:"type"`

	BookingID   string `json:"booking_id"`
	EventID     string `json:"event_id"`
	EventTitle  string `json:"event_title"`
	SectionID   string `json:"section_id"`
	SectionName string `json:"section_name"`
	RowID       string `json:"row_id"`
	RowName     string `json:"row_name"`
	SeatNumbers []int  `json:"seat_numbers"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	TotalAmount     float64   `json:"total_amount"`
	DiscountApplied bool      `json:"discount_applied"`
	DiscountAmount  float64   `json:"discount_amount"`
	BookedAt        time.Time `json:"booked_at"`
}

// ToJSON serializes the notification for the wire
func (n *BookingConfirmed) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// GetPartitionKey keeps all notifications of one event on one partition
func (n *BookingConfirmed) GetPartitionKey() string {
	return n.EventID
}
