package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/events"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/notifications"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/apperrors"
	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for booking business logic
type Service interface {
	BookTickets(ctx context.Context, req BookingRequest) (*BookingResult, error)
}

type service struct {
	events     events.Repository
	locks      *LockRegistry
	publisher  notifications.Publisher
	maxTickets int
	now        func() time.Time
	newID      func() string
}

type Option func(*service)

// WithPublisher sends a notification for every successful booking.
func WithPublisher(p notifications.Publisher) Option {
	return func(s *service) {
		s.publisher = p
	}
}

// WithMaxTickets overrides the per-booking ticket limit.
func WithMaxTickets(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.maxTickets = n
		}
	}
}

// WithClock overrides the booking timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithIDGenerator overrides booking id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *service) {
		s.newID = newID
	}
}

// NewService creates a booking engine over the given event store and locks
func NewService(repo events.Repository, locks *LockRegistry, opts ...Option) Service {
	s := &service{
		events:     repo,
		locks:      locks,
		maxTickets: DefaultMaxTicketsPerBooking,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BookTickets assigns the lowest-numbered free seats of one row to a customer.
// Either every requested seat is booked or none is.
func (s *service) BookTickets(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	log := logger.GetDefault()

	if err := s.validateRequest(req); err != nil {
		log.LogBookingRejected(ctx, req.EventID, req.RowID, string(apperrors.KindOf(err)), err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("booking aborted: %w", err)
	}

	result, notification, err := s.reserve(ctx, req)
	if err != nil {
		log.LogBookingRejected(ctx, req.EventID, req.RowID, string(apperrors.KindOf(err)), err.Error())
		return nil, err
	}

	log.LogBookingCreated(ctx, result.BookingID, result.EventID, result.RowID, len(result.BookedSeats), result.TotalAmount)
	s.notify(ctx, notification)

	return result, nil
}

// reserve performs every step that must happen under the row lock. The lock
// is released on all return paths, panics included.
func (s *service) reserve(ctx context.Context, req BookingRequest) (result *BookingResult, notification *notifications.BookingConfirmed, err error) {
	key := req.lockKey()

	lock, ok := s.locks.TryAcquire(key)
	if !ok {
		logger.GetDefault().LogLockContention(ctx, key.String())
		return nil, nil, apperrors.New(apperrors.KindContention,
			"Another booking is in progress for this row. Please try again.")
	}
	defer lock.Release()

	defer func() {
		if r := recover(); r != nil {
			logger.GetDefault().ErrorContext(ctx, "Booking panicked",
				slog.String("lock_key", key.String()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			result, notification = nil, nil
			err = apperrors.Wrap(apperrors.KindInternal,
				"An error occurred while processing your booking", fmt.Errorf("panic: %v", r))
		}
	}()

	event, ok := s.events.Get(req.EventID)
	if !ok {
		return nil, nil, apperrors.NotFound("Event not found")
	}
	section, ok := event.Section(req.SectionID)
	if !ok {
		return nil, nil, apperrors.NotFound("Section not found")
	}
	row, ok := section.Row(req.RowID)
	if !ok {
		return nil, nil, apperrors.NotFound("Row not found")
	}

	available := row.AvailableSeats()
	if len(available) < req.TicketCount {
		return nil, nil, apperrors.Newf(apperrors.KindInsufficientInventory,
			"Only %d seats available in this row", len(available))
	}

	selected := available[:req.TicketCount]
	bookingID := s.newID()
	bookedAt := s.now()

	states := make([]events.SeatState, 0, len(selected))
	err = lock.Commit(func() error {
		// Every seat write goes through Commit, so the selection cannot change here.
		for _, seat := range selected {
			if seat.IsBooked() {
				return ErrLockLost
			}
		}
		for _, seat := range selected {
			seat.MarkBooked(bookingID, bookedAt)
			states = append(states, seat.State())
		}
		return nil
	})
	if err != nil {
		logger.GetDefault().LogLockContention(ctx, key.String())
		return nil, nil, apperrors.Wrap(apperrors.KindContention,
			"Another booking is in progress for this row. Please try again.", err)
	}

	quote := PriceTickets(section.Price, req.TicketCount)

	result = &BookingResult{
		Success:         true,
		BookingID:       bookingID,
		EventID:         event.ID,
		SectionID:       section.ID,
		RowID:           row.ID,
		BookedSeats:     states,
		BaseAmount:      quote.BaseAmount,
		TotalAmount:     quote.TotalAmount,
		DiscountApplied: quote.DiscountApplied,
		DiscountAmount:  quote.DiscountAmount,
		Customer:        req.Customer,
		BookedAt:        bookedAt,
	}

	notification = &notifications.BookingConfirmed{
		Type:            notifications.NotificationTypeBookingConfirmed,
		BookingID:       bookingID,
		EventID:         event.ID,
		EventTitle:      event.Title,
		SectionID:       section.ID,
		SectionName:     section.Name,
		RowID:           row.ID,
		RowName:         row.Name,
		SeatNumbers:     result.SeatNumbers(),
		CustomerName:    req.Customer.Name,
		CustomerEmail:   req.Customer.Email,
		CustomerPhone:   req.Customer.Phone,
		TotalAmount:     quote.TotalAmount,
		DiscountApplied: quote.DiscountApplied,
		DiscountAmount:  quote.DiscountAmount,
		BookedAt:        bookedAt,
	}

	return result, notification, nil
}

// validateRequest re-checks what the transport layer should already have
// rejected, so the engine never locks on an empty key.
func (s *service) validateRequest(req BookingRequest) error {
	var missing []string
	if strings.TrimSpace(req.EventID) == "" {
		missing = append(missing, "event_id")
	}
	if strings.TrimSpace(req.SectionID) == "" {
		missing = append(missing, "section_id")
	}
	if strings.TrimSpace(req.RowID) == "" {
		missing = append(missing, "row_id")
	}
	if len(missing) > 0 {
		return apperrors.InvalidInput("Missing required fields: " + strings.Join(missing, ", "))
	}

	if req.TicketCount < 1 || req.TicketCount > s.maxTickets {
		return apperrors.InvalidInput(ticketRangeMessage(s.maxTickets))
	}

	if strings.TrimSpace(req.Customer.Name) == "" || strings.TrimSpace(req.Customer.Email) == "" {
		return apperrors.InvalidInput(customerRequiredMessage)
	}
	return nil
}

// notify publishes outside the row lock; a failed publish never fails the booking.
func (s *service) notify(ctx context.Context, notification *notifications.BookingConfirmed) {
	if s.publisher == nil || notification == nil {
		return
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, notification); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to publish booking notification", err,
			map[string]interface{}{"booking_id": notification.BookingID})
	}
}
