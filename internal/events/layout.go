package events

import (
	"time"

	"github.com/google/uuid"
)

// SectionLayout describes a section to build when creating an event.
type SectionLayout struct {
	Name  string      `json:"name" validate:"required,max=100"`
	Price float64     `json:"price" validate:"gte=0"`
	Rows  []RowLayout `json:"rows" validate:"required,min=1,dive"`
}

type RowLayout struct {
	Name  string `json:"name" validate:"required,max=20"`
	Seats int    `json:"seats" validate:"required,min=1,max=500"`
}

// DefaultLayout is used when an event is created without sections.
func DefaultLayout() []SectionLayout {
	return []SectionLayout{
		{Name: "VIP", Price: 200, Rows: rowLayouts(10, "A", "B")},
		{Name: "Premium", Price: 150, Rows: rowLayouts(12, "C", "D", "E")},
		{Name: "General", Price: 100, Rows: rowLayouts(15, "F", "G", "H", "I", "J")},
	}
}

func rowLayouts(seats int, names ...string) []RowLayout {
	rows := make([]RowLayout, 0, len(names))
	for _, name := range names {
		rows = append(rows, RowLayout{Name: name, Seats: seats})
	}
	return rows
}

// buildSections materializes a layout into a fresh section tree with new ids.
func buildSections(layout []SectionLayout) []*Section {
	sections := make([]*Section, 0, len(layout))
	for _, sl := range layout {
		section := &Section{
			ID:    uuid.NewString(),
			Name:  sl.Name,
			Price: sl.Price,
			Rows:  make([]*Row, 0, len(sl.Rows)),
		}
		for _, rl := range sl.Rows {
			section.Rows = append(section.Rows, buildRow(rl))
		}
		sections = append(sections, section)
	}
	return sections
}

func buildRow(rl RowLayout) *Row {
	row := &Row{
		ID:    uuid.NewString(),
		Name:  rl.Name,
		Seats: make([]*Seat, 0, rl.Seats),
	}
	for n := 1; n <= rl.Seats; n++ {
		row.Seats = append(row.Seats, &Seat{ID: uuid.NewString(), Number: n})
	}
	return row
}

// sampleEvents are loaded at startup when seeding is enabled.
var sampleEvents = []CreateEventInput{
	{
		Title:       "Rock Concert 2024",
		Description: "An amazing rock concert featuring top artists",
		Date:        time.Date(2024, time.June, 15, 19, 0, 0, 0, time.UTC),
		Venue:       "Narendra Modi Stadium",
	},
	{
		Title:       "Classical Music Evening",
		Description: "A sophisticated evening of classical music",
		Date:        time.Date(2024, time.July, 20, 20, 0, 0, 0, time.UTC),
		Venue:       "Town Hall",
	},
}
