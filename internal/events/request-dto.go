package events

import "time"

// CreateEventRequest is the body of POST /events. Field rules are enforced by
// the service so that programmatic callers get the same checks.
type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Venue       string          `json:"venue"`
	Sections    []SectionLayout `json:"sections,omitempty"`
}

func (r CreateEventRequest) ToInput() CreateEventInput {
	return CreateEventInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Venue:       r.Venue,
		Sections:    r.Sections,
	}
}
