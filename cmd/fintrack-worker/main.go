package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	slog.SetDefault(logger.Logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := backend.Open(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
	}, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	// AMQP is optional: without it the worker still scans and logs which
	// bills are due, it just cannot publish events.
	var publisher worker.Publisher
	var client *events.Client
	if cfg.AMQPURL != "" {
		client, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	// Drain the bill-due queue and log each reminder. This stands in for
	// real notification delivery (mail, push) until one exists.
	if client != nil {
		go func() {
			if err := client.Consume(ctx, logBillDue); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Bill-due consumption failed", "error", err)
				cancel()
			}
		}()
	}

	w := worker.NewReminderWorker(st, publisher, cfg.ReminderScanInterval)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Reminder worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

func logBillDue(ctx context.Context, msg *events.BillDueMessage) error {
	slog.InfoContext(ctx, "Bill due soon",
		"bill_id", msg.BillID,
		"user_id", msg.UserID,
		"title", msg.Title,
		"amount_cents", msg.AmountCents,
		"days_until_due", msg.DaysUntilDue)
	return nil
}
