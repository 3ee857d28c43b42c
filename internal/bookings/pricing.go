package bookings

const (
	// GroupDiscountThreshold is the ticket count from which the group discount applies.
	GroupDiscountThreshold = 4
	// GroupDiscountRate is the fraction taken off the base amount for group bookings.
	GroupDiscountRate = 0.10
)

// Quote is the price breakdown for one booking.
type Quote struct {
	BaseAmount      float64 `json:"base_amount"`
	DiscountApplied bool    `json:"discount_applied"`
	DiscountAmount  float64 `json:"discount_amount"`
	TotalAmount     float64 `json:"total_amount"`
}

// PriceTickets prices ticketCount seats at unitPrice, applying the group
// discount from GroupDiscountThreshold tickets up. Amounts are not rounded;
// formatting to currency precision is left to presentation.
func PriceTickets(unitPrice float64, ticketCount int) Quote {
	base := unitPrice * float64(ticketCount)
	quote := Quote{BaseAmount: base, TotalAmount: base}

	if ticketCount >= GroupDiscountThreshold {
		quote.DiscountApplied = true
		quote.DiscountAmount = base * GroupDiscountRate
		quote.TotalAmount = base - quote.DiscountAmount
	}
	return quote
}
