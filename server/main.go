package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HemangKanojiya20/event-ticket-booking/api/routes"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/notifications"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/config"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/database"
	"github.com/HemangKanojiya20/event-ticket-booking/internal/shared/middleware"
	"github.com/HemangKanojiya20/event-ticket-booking/pkg/logger"
	"github.com/HemangKanojiya20/event-ticket-booking/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Smart environment loading
	envErr := godotenv.Load()

	// Load config
	cfg := config.Load()

	// Set Gin mode (debug/release) before the logger picks its handler
	gin.SetMode(cfg.GinMode)
	appLogger := logger.New()
	logger.SetDefault(appLogger)

	if envErr != nil {
		// Check if we're in production/container mode
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	appLogger.Info("Starting event ticket booking service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("git_commit", GitCommit),
	)

	// Initialize DB (Redis is optional)
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to connect to Redis, continuing without it", slog.Any("error", err))
		db = &database.DB{}
	}
	defer db.Close()

	// Initialize Rate Limiter
	var rateLimiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		rateLimiter = newRateLimiter(cfg, db)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Initialize booking notifications
	publisher, err := notifications.NewPublisher(notifications.Config{
		Backend: cfg.Notifications.Backend,
		Kafka:   kafkaConfig(cfg),
		RabbitMQ: notifications.RabbitMQConfig{
			URL:   cfg.Notifications.RabbitMQURL,
			Queue: cfg.Notifications.RabbitMQQueue,
		},
	})
	if err != nil {
		appLogger.Error("Failed to initialize notification publisher, falling back to log",
			slog.String("backend", cfg.Notifications.Backend),
			slog.Any("error", err),
		)
		publisher = notifications.NewLogPublisher(appLogger)
	}
	defer func() {
		appLogger.Info("Closing notification publisher...")
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error closing notification publisher", slog.Any("error", err))
		}
	}()

	// Wire catalog and booking engine
	appRouter := routes.NewRouter(cfg, db, publisher)
	if cfg.Booking.SeedSampleEvents {
		if err := appRouter.SeedSampleEvents(context.Background()); err != nil {
			appLogger.Error("Failed to seed sample events", slog.Any("error", err))
		}
	}

	router := setupRouter(cfg, appRouter, rateLimiter)

	// HTTP server
	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_base", fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath())),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis", db.GetRedisClient() != nil),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.String("notifications", cfg.Notifications.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// newRateLimiter shares limits through Redis when it is connected, and keeps
// them per process otherwise.
func newRateLimiter(cfg *config.Config, db *database.DB) ratelimit.Limiter {
	appLogger := logger.GetDefault()
	rateLimiterConfig := &ratelimit.Config{
		Enabled:         cfg.RateLimit.Enabled,
		WindowDuration:  cfg.RateLimit.WindowDuration,
		DefaultRequests: cfg.RateLimit.DefaultRequests,
		PublicRequests:  cfg.RateLimit.PublicRequests,
		BookingRequests: cfg.RateLimit.BookingRequests,
		HealthRequests:  cfg.RateLimit.HealthRequests,
		WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
	}

	var limiter ratelimit.Limiter
	backend := "memory"
	if rdb := db.GetRedisClient(); rdb != nil {
		limiter = ratelimit.NewRedisLimiter(rdb, rateLimiterConfig)
		backend = "redis"
	} else {
		limiter = ratelimit.NewMemoryLimiter(rateLimiterConfig)
	}

	appLogger.Info("Rate limiter initialized",
		slog.String("backend", backend),
		slog.Duration("window", cfg.RateLimit.WindowDuration),
		slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
	)
	return limiter
}

func kafkaConfig(cfg *config.Config) *notifications.KafkaProducerConfig {
	kafkaCfg := notifications.DefaultKafkaProducerConfig()
	kafkaCfg.Brokers = cfg.Notifications.KafkaBrokers
	kafkaCfg.BookingTopic = cfg.Notifications.KafkaTopic
	return kafkaCfg
}

func setupRouter(cfg *config.Config, appRouter *routes.Router, rateLimiter ratelimit.Limiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	// Request id first so every later log line can carry it
	engine.Use(middleware.RequestID(), RequestLoggerMiddleware(appLogger), gin.Recovery())
	engine.Use(middleware.SecurityHeaders())

	// CORS configuration
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Global rate limiting middleware (applied to all routes)
	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
