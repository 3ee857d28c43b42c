package events

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// Event is the root of a seat inventory tree. The Section/Row/Seat shape is
// fixed at creation; only seat booking state changes afterwards.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Venue       string     `json:"venue"`
	Sections    []*Section `json:"sections"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Section struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Rows  []*Row  `json:"rows"`
}

type Row struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Seats []*Seat `json:"seats"`
}

// Seat holds its booking stamp behind an atomic pointer so that the booked
// flag, booking id and booking time are published together.
type Seat struct {
	ID     string
	Number int

	booking atomic.Pointer[seatBooking]
}

type seatBooking struct {
	bookingID string
	bookedAt  time.Time
}

// SeatState is a point-in-time copy of a seat.
type SeatState struct {
	ID        string     `json:"id"`
	Number    int        `json:"number"`
	IsBooked  bool       `json:"is_booked"`
	BookedAt  *time.Time `json:"booked_at,omitempty"`
	BookingID string     `json:"booking_id,omitempty"`
}

// Section returns the section with the given id.
func (e *Event) Section(id string) (*Section, bool) {
	for _, section := range e.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return nil, false
}

// Row returns the row with the given id.
func (s *Section) Row(id string) (*Row, bool) {
	for _, row := range s.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return nil, false
}

// AvailableSeats returns the unbooked seats in seat-number order.
func (r *Row) AvailableSeats() []*Seat {
	available := make([]*Seat, 0, len(r.Seats))
	for _, seat := range r.Seats {
		if !seat.IsBooked() {
			available = append(available, seat)
		}
	}
	return available
}

// Counts returns total, available and booked seat counts for the row.
func (r *Row) Counts() (total, available, booked int) {
	total = len(r.Seats)
	for _, seat := range r.Seats {
		if seat.IsBooked() {
			booked++
		}
	}
	return total, total - booked, booked
}

func (s *Seat) IsBooked() bool {
	return s.booking.Load() != nil
}

// MarkBooked books the seat. It returns false if the seat was already booked;
// booking state is never cleared. Callers must hold the row lock.
func (s *Seat) MarkBooked(bookingID string, at time.Time) bool {
	return s.booking.CompareAndSwap(nil, &seatBooking{bookingID: bookingID, bookedAt: at})
}

// State returns a consistent snapshot of the seat.
func (s *Seat) State() SeatState {
	state := SeatState{ID: s.ID, Number: s.Number}
	if b := s.booking.Load(); b != nil {
		bookedAt := b.bookedAt
		state.IsBooked = true
		state.BookedAt = &bookedAt
		state.BookingID = b.bookingID
	}
	return state
}

func (s *Seat) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.State())
}

// TotalSeats counts every seat in the event.
func (e *Event) TotalSeats() int {
	total := 0
	for _, section := range e.Sections {
		for _, row := range section.Rows {
			total += len(row.Seats)
		}
	}
	return total
}
