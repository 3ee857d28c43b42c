package events

// Availability is derived on demand from live seat state and never stored.
type Availability struct {
	EventID        string                `json:"event_id"`
	TotalSeats     int                   `json:"total_seats"`
	AvailableSeats int                   `json:"available_seats"`
	BookedSeats    int                   `json:"booked_seats"`
	Sections       []SectionAvailability `json:"sections"`
}

type SectionAvailability struct {
	SectionID      string            `json:"section_id"`
	Name           string            `json:"name"`
	Price          float64           `json:"price"`
	TotalSeats     int               `json:"total_seats"`
	AvailableSeats int               `json:"available_seats"`
	BookedSeats    int               `json:"booked_seats"`
	Rows           []RowAvailability `json:"rows"`
}

type RowAvailability struct {
	RowID          string `json:"row_id"`
	Name           string `json:"name"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
	BookedSeats    int    `json:"booked_seats"`
}

// Aggregate counts free and booked seats per row, per section and for the
// whole event. It takes no locks; concurrent bookings may or may not be
// reflected, but each row's counts always add up to its seat total.
func Aggregate(event *Event) Availability {
	result := Availability{
		EventID:  event.ID,
		Sections: make([]SectionAvailability, 0, len(event.Sections)),
	}

	for _, section := range event.Sections {
		sa := SectionAvailability{
			SectionID: section.ID,
			Name:      section.Name,
			Price:     section.Price,
			Rows:      make([]RowAvailability, 0, len(section.Rows)),
		}
		for _, row := range section.Rows {
			total, available, booked := row.Counts()
			sa.Rows = append(sa.Rows, RowAvailability{
				RowID:          row.ID,
				Name:           row.Name,
				TotalSeats:     total,
				AvailableSeats: available,
				BookedSeats:    booked,
			})
			sa.TotalSeats += total
			sa.AvailableSeats += available
			sa.BookedSeats += booked
		}
		result.TotalSeats += sa.TotalSeats
		result.AvailableSeats += sa.AvailableSeats
		result.BookedSeats += sa.BookedSeats
		result.Sections = append(result.Sections, sa)
	}

	return result
}
