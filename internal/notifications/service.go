package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"
)

const (
	BackendLog      = "log"
	BackendKafka    = "kafka"
	BackendRabbitMQ = "rabbitmq"
)

// Publisher delivers booking notifications to downstream consumers
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, notification *BookingConfirmed) error
	Close() error
}

// Config selects and configures a Publisher backend
type Config struct {
	Backend  string
	Kafka    *KafkaProducerConfig
	RabbitMQ RabbitMQConfig
}

// NewPublisher builds the publisher for the configured backend
func NewPublisher(cfg Config) (Publisher, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendLog:
		return NewLogPublisher(logger.GetDefault()), nil
	case BackendKafka:
		kafkaCfg := cfg.Kafka
		if kafkaCfg == nil {
			kafkaCfg = DefaultKafkaProducerConfig()
		}
		publisher, err := NewKafkaPublisher(kafkaCfg)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	case BackendRabbitMQ:
		publisher, err := NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown notifications backend %q", cfg.Backend)
	}
}

// LogPublisher writes notifications to the application log
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(l *logger.Logger) *LogPublisher {
	return &LogPublisher{log: l}
}

func (p *LogPublisher) PublishBookingConfirmed(ctx context.Context, n *BookingConfirmed) error {
	p.log.InfoContext(ctx, "Booking Confirmed Notification",
		slog.String("booking_id", n.BookingID),
		slog.String("event_id", n.EventID),
		slog.String("section", n.SectionName),
		slog.String("row", n.RowName),
		slog.Any("seats", n.SeatNumbers),
		slog.String("customer_email", n.CustomerEmail),
		slog.Float64("total_amount", n.TotalAmount),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
