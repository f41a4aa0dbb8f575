package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekogravitycat/conference-booking-backend/internal/app"
	"github.com/nekogravitycat/conference-booking-backend/internal/config"
	"github.com/nekogravitycat/conference-booking-backend/internal/db"
	"github.com/nekogravitycat/conference-booking-backend/internal/notify"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("failed to load config", "error", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "conference-booking",
	})
	slog.SetDefault(log.Logger)

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		log.Fatal("failed to connect to db", "error", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal("failed to migrate db", "error", err)
	}

	// Notification sinks
	var notifiers []notify.Notifier
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.WebhookURL, &http.Client{Timeout: cfg.WebhookTimeout}))
		log.Info("webhook notifications enabled", "url", cfg.WebhookURL)
	}
	if len(cfg.KafkaBrokers) > 0 {
		kn, err := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Fatal("failed to create kafka notifier", "error", err)
		}
		notifiers = append(notifiers, kn)
		log.Info("kafka notifications enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	dispatcher := notify.NewDispatcher(log, cfg.WebhookTimeout, cfg.NotifyMaxInFlight, notifiers...)

	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		Logger:       log,
		Publisher:    dispatcher,
	})

	if cfg.SeedRooms {
		seeded, err := container.RoomService.Seed(ctx)
		if err != nil {
			log.Fatal("failed to seed rooms", "error", err)
		}
		if seeded > 0 {
			log.Info("seeded default rooms", "count", seeded)
		}
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Info("server running", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server first so no new events are published
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	// Drain in-flight notifications
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("notification dispatcher did not drain", "error", err)
	}

	log.Info("server exited gracefully")
}
