package events

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/apperrors"
	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var errDuplicateEventID = errors.New("event id already exists")

// CreateEventInput is the payload for creating an event. Sections may be
// omitted, in which case the default three-tier layout is generated.
type CreateEventInput struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Date        time.Time       `json:"date" validate:"required"`
	Venue       string          `json:"venue" validate:"required,max=255"`
	Sections    []SectionLayout `json:"sections" validate:"omitempty,dive"`
}

type Service interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error)
	ListEvents(ctx context.Context) []*Event
	GetEvent(ctx context.Context, id string) (*Event, error)
	GetAvailability(ctx context.Context, id string) (*Availability, error)
	SeedSampleEvents(ctx context.Context) error
}

type service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: newValidator(),
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names in validation messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *service) CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Venue = strings.TrimSpace(input.Venue)

	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	layout := input.Sections
	if len(layout) == 0 {
		layout = DefaultLayout()
	}

	event := &Event{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Venue:       input.Venue,
		Sections:    buildSections(layout),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Add(event); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	logger.GetDefault().LogEventCreated(ctx, event.ID, event.Title, event.TotalSeats())
	return event, nil
}

func (s *service) ListEvents(ctx context.Context) []*Event {
	return s.repo.List()
}

func (s *service) GetEvent(ctx context.Context, id string) (*Event, error) {
	event, ok := s.repo.Get(id)
	if !ok {
		return nil, apperrors.NotFound("Event not found")
	}
	return event, nil
}

func (s *service) GetAvailability(ctx context.Context, id string) (*Availability, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	availability := Aggregate(event)
	return &availability, nil
}

func (s *service) SeedSampleEvents(ctx context.Context) error {
	for _, input := range sampleEvents {
		if _, err := s.CreateEvent(ctx, input); err != nil {
			return fmt.Errorf("failed to seed event %q: %w", input.Title, err)
		}
	}
	return nil
}

// validationError turns validator output into an InvalidInput error naming
// the offending fields.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Wrap(apperrors.KindInvalidInput, "Invalid event data", err)
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "Invalid fields: "+strings.Join(invalid, ", "))
	}
	return apperrors.Wrap(apperrors.KindInvalidInput, strings.Join(parts, "; "), err)
}
