package bookings

import (
	"math"
	"testing"
)

const priceEpsilon = 1e-9

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < priceEpsilon
}

func TestPriceTickets(t *testing.T) {
	tests := []struct {
		name         string
		unitPrice    float64
		count        int
		wantBase     float64
		wantDiscount float64
		wantTotal    float64
		wantApplied  bool
	}{
		{"single ticket", 200, 1, 200, 0, 200, false},
		{"below threshold", 150, 3, 450, 0, 450, false},
		{"at threshold", 100, 4, 400, 40, 360, true},
		{"vip five", 200, 5, 1000, 100, 900, true},
		{"max tickets", 150, 10, 1500, 150, 1350, true},
		{"fractional price", 19.99, 4, 79.96, 7.996, 71.964, true},
		{"fractional price thirds", 33.33, 4, 133.32, 13.332, 119.988, true},
		{"sub-cent price no discount", 12.345, 1, 12.345, 0, 12.345, false},
		{"free section", 0, 6, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := PriceTickets(tt.unitPrice, tt.count)
			if !closeTo(q.BaseAmount, tt.wantBase) || !closeTo(q.DiscountAmount, tt.wantDiscount) ||
				!closeTo(q.TotalAmount, tt.wantTotal) || q.DiscountApplied != tt.wantApplied {
				t.Errorf("PriceTickets(%v, %d) = %+v", tt.unitPrice, tt.count, q)
			}
		})
	}
}

func TestPriceTicketsDiscountLaw(t *testing.T) {
	for _, price := range []float64{123.45, 19.99, 33.33, 12.345, 0.01} {
		for count := 1; count <= DefaultMaxTicketsPerBooking; count++ {
			q := PriceTickets(price, count)
			want := price * float64(count)
			if count >= GroupDiscountThreshold {
				want = price * float64(count) * 0.9
			}
			if !closeTo(q.TotalAmount, want) {
				t.Errorf("price %v count %d: total %v, want %v", price, count, q.TotalAmount, want)
			}
			if !closeTo(q.TotalAmount+q.DiscountAmount, q.BaseAmount) {
				t.Errorf("price %v count %d: total %v + discount %v != base %v",
					price, count, q.TotalAmount, q.DiscountAmount, q.BaseAmount)
			}
			if q.DiscountApplied != (count >= GroupDiscountThreshold) {
				t.Errorf("price %v count %d: discount applied = %v", price, count, q.DiscountApplied)
			}
		}
	}
}
