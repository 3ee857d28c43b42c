// Command notifier consumes BookingConfirmed messages and sends the customer a
// receipt. It reads the RabbitMQ queue when NOTIFICATIONS_BACKEND=rabbitmq and
// the Kafka topic otherwise. Without SMTP settings receipts are logged instead.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/HemangKanojiya20/event-ticket-booking/internal/notifications"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/config"
	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	appLogger := logger.New()
	logger.SetDefault(appLogger)

	if envErr != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}

	handler := receiptHandler(cfg, appLogger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	consumer, err := startConsumer(ctx, cfg, handler)
	if err != nil {
		appLogger.Error("Failed to start receipt consumer", slog.Any("error", err))
		os.Exit(1)
	}

	<-ctx.Done()
	appLogger.Info("Shutting down notifier...")
	if err := consumer.Stop(); err != nil {
		appLogger.Error("Error stopping consumer", slog.Any("error", err))
	}
	appLogger.Info("Notifier exited gracefully")
}

type receiptConsumer interface {
	Stop() error
}

func startConsumer(ctx context.Context, cfg *config.Config, handler notifications.Handler) (receiptConsumer, error) {
	if strings.EqualFold(cfg.Notifications.Backend, notifications.BackendRabbitMQ) {
		rabbitCfg := notifications.DefaultRabbitMQConsumerConfig()
		rabbitCfg.URL = cfg.Notifications.RabbitMQURL
		rabbitCfg.Queue = cfg.Notifications.RabbitMQQueue

		consumer, err := notifications.NewRabbitMQConsumer(rabbitCfg, handler)
		if err != nil {
			return nil, err
		}
		if err := consumer.Start(ctx, cfg.Notifications.ReceiptWorkers); err != nil {
			_ = consumer.Stop()
			return nil, err
		}
		return consumer, nil
	}

	consumerCfg := notifications.DefaultConsumerConfig()
	consumerCfg.Brokers = cfg.Notifications.KafkaBrokers
	consumerCfg.Topics = []string{cfg.Notifications.KafkaTopic}
	consumerCfg.GroupID = cfg.Notifications.KafkaConsumerGroup

	consumer, err := notifications.NewKafkaConsumer(consumerCfg, handler)
	if err != nil {
		return nil, err
	}
	consumer.Start(ctx, cfg.Notifications.ReceiptWorkers)
	return consumer, nil
}

func receiptHandler(cfg *config.Config, appLogger *logger.Logger) notifications.Handler {
	smtpCfg := notifications.SMTPConfig{
		Host:      cfg.Notifications.SMTP.Host,
		Port:      cfg.Notifications.SMTP.Port,
		Username:  cfg.Notifications.SMTP.Username,
		Password:  cfg.Notifications.SMTP.Password,
		FromEmail: cfg.Notifications.SMTP.FromEmail,
		FromName:  cfg.Notifications.SMTP.FromName,
		Timeout:   cfg.Notifications.SMTP.Timeout,
	}
	if !smtpCfg.Enabled() {
		appLogger.Info("SMTP not configured, receipts will be logged")
		return notifications.NewLogReceiptHandler(appLogger)
	}

	mailer, err := notifications.NewReceiptMailer(smtpCfg)
	if err != nil {
		appLogger.Error("Invalid SMTP configuration, receipts will be logged", slog.Any("error", err))
		return notifications.NewLogReceiptHandler(appLogger)
	}
	return mailer
}
