package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSeatMarkBookedOnce(t *testing.T) {
	seat := &Seat{ID: "s1", Number: 7}
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if !seat.MarkBooked("b1", at) {
		t.Fatal("first MarkBooked should succeed")
	}
	if seat.MarkBooked("b2", at.Add(time.Minute)) {
		t.Fatal("second MarkBooked should fail")
	}

	state := seat.State()
	if !state.IsBooked || state.BookingID != "b1" {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.BookedAt == nil || !state.BookedAt.Equal(at) {
		t.Fatalf("booked_at = %v, want %v", state.BookedAt, at)
	}
}

func TestSeatMarkBookedConcurrent(t *testing.T) {
	seat := &Seat{ID: "s1", Number: 1}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if seat.MarkBooked("b", time.Now()) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("wins = %d, want 1", wins.Load())
	}
}

func TestSeatJSON(t *testing.T) {
	seat := &Seat{ID: "s1", Number: 3}

	data, err := json.Marshal(seat)
	if err != nil {
		t.Fatal(err)
	}
	var free map[string]interface{}
	if err := json.Unmarshal(data, &free); err != nil {
		t.Fatal(err)
	}
	if free["is_booked"] != false {
		t.Errorf("is_booked = %v, want false", free["is_booked"])
	}
	if _, ok := free["booking_id"]; ok {
		t.Error("free seat should not carry booking_id")
	}

	seat.MarkBooked("b1", time.Now())
	data, err = json.Marshal(seat)
	if err != nil {
		t.Fatal(err)
	}
	var booked map[string]interface{}
	if err := json.Unmarshal(data, &booked); err != nil {
		t.Fatal(err)
	}
	if booked["is_booked"] != true || booked["booking_id"] != "b1" || booked["booked_at"] == nil {
		t.Errorf("unexpected booked seat json %s", data)
	}
}

func TestRowAvailableSeatsOrder(t *testing.T) {
	row := buildRow(RowLayout{Name: "A", Seats: 5})
	row.Seats[0].MarkBooked("b", time.Now())
	row.Seats[2].MarkBooked("b", time.Now())

	available := row.AvailableSeats()
	var numbers []int
	for _, seat := range available {
		numbers = append(numbers, seat.Number)
	}
	want := []int{2, 4, 5}
	if len(numbers) != len(want) {
		t.Fatalf("available = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("available = %v, want %v", numbers, want)
		}
	}

	total, free, booked := row.Counts()
	if total != 5 || free != 3 || booked != 2 {
		t.Errorf("counts = %d/%d/%d, want 5/3/2", total, free, booked)
	}
}

func TestEventLookup(t *testing.T) {
	event := &Event{ID: "e1", Sections: buildSections(DefaultLayout())}

	section := event.Sections[1]
	got, ok := event.Section(section.ID)
	if !ok || got != section {
		t.Fatal("Section lookup failed")
	}
	if _, ok := event.Section("missing"); ok {
		t.Error("unknown section should not resolve")
	}

	row := section.Rows[2]
	gotRow, ok := section.Row(row.ID)
	if !ok || gotRow != row {
		t.Fatal("Row lookup failed")
	}
	if _, ok := section.Row("missing"); ok {
		t.Error("unknown row should not resolve")
	}

	if event.TotalSeats() != 2*10+3*12+5*15 {
		t.Errorf("TotalSeats = %d, want %d", event.TotalSeats(), 2*10+3*12+5*15)
	}
}
