package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"

	"github.com/IBM/sarama"
)

// Handler processes one booking notification taken off the topic.
type Handler interface {
	HandleBookingConfirmed(ctx context.Context, notification *BookingConfirmed) error
}

type HandlerFunc func(ctx context.Context, notification *BookingConfirmed) error

func (f HandlerFunc) HandleBookingConfirmed(ctx context.Context, notification *BookingConfirmed) error {
	return f(ctx, notification)
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	RetryBackoffMs       int
	MaxProcessingTime    time.Duration
	AutoCommit           bool
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "booking-receipt-workers",
		Topics:               []string{"booking-confirmed"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		RetryBackoffMs:       100,
		MaxProcessingTime:    time.Minute,
		AutoCommit:           true,
		OffsetOldest:         true,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// KafkaConsumer feeds BookingConfirmed messages from a consumer group to a Handler.
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	handler       Handler
	wg            sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, handler Handler) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(config.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if config.AutoCommit {
		saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
		saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		handler:       handler,
	}, nil
}

// Start runs numWorkers consume loops until ctx is cancelled.
func (kc *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	log := logger.GetDefault()
	log.Info("Starting booking notification consumers",
		slog.Int("workers", numWorkers),
		slog.Any("topics", kc.config.Topics),
		slog.String("group_id", kc.config.GroupID),
	)

	go kc.handleErrors()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &ConsumerGroupHandler{
		handler:    kc.handler,
		workerID:   workerID,
		maxRetries: kc.config.MaxRetries,
		backoff:    kc.config.RetryBackoffDuration,
	}

	for {
		if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
			logger.GetDefault().Error("Error consuming messages",
				slog.Int("worker", workerID), slog.Any("error", err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		logger.GetDefault().Error("Consumer group error", slog.Any("error", err))
	}
}

// Stop waits for the workers to leave their sessions and closes the group.
// Cancel the context passed to Start first.
func (kc *KafkaConsumer) Stop() error {
	kc.wg.Wait()
	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	logger.GetDefault().Info("Booking notification consumer stopped")
	return nil
}

// ConsumerGroupHandler implements sarama.ConsumerGroupHandler.
type ConsumerGroupHandler struct {
	handler    Handler
	workerID   int
	maxRetries int
	backoff    time.Duration
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	logger.GetDefault().Debug("Consumer group session started", slog.Int("worker", h.workerID))
	return nil
}

func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	logger.GetDefault().Debug("Consumer group session ended", slog.Int("worker", h.workerID))
	return nil
}

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				logger.GetDefault().ErrorWithContext(session.Context(), "Failed to process booking notification", err,
					map[string]interface{}{"worker": h.workerID, "offset": message.Offset, "partition": message.Partition})
			}
			// Failed messages are logged and skipped so one bad record cannot stall the partition.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *ConsumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	return deliver(ctx, h.handler, message.Value, h.maxRetries, h.backoff)
}

// deliver decodes a message body and hands it to handler, retrying failures.
// Messages of other types are skipped.
func deliver(ctx context.Context, handler Handler, body []byte, maxRetries int, backoff time.Duration) error {
	var notification BookingConfirmed
	if err := json.Unmarshal(body, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if notification.Type != NotificationTypeBookingConfirmed {
		logger.GetDefault().Debug("Skipping unsupported notification", slog.String("type", string(notification.Type)))
		return nil
	}

	return executeWithRetry(ctx, handler, &notification, maxRetries, backoff)
}

func executeWithRetry(ctx context.Context, handler Handler, notification *BookingConfirmed, maxRetries int, backoff time.Duration) error {
	for attempt := 0; ; attempt++ {
		err := handler.HandleBookingConfirmed(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return fmt.Errorf("booking %s failed after %d attempts: %w", notification.BookingID, attempt+1, err)
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
