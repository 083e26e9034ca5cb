package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seminar_portal_backend/internal/directory"
	"seminar_portal_backend/internal/email"
	"seminar_portal_backend/internal/events"
	"seminar_portal_backend/internal/notification"
	"seminar_portal_backend/internal/scheduler"
	"seminar_portal_backend/internal/seminar"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/db"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val := validator.New()

	// Reminder events published by the worker fan out through the same
	// notification module the API uses, so reminder recipients get in-app
	// entries and outbox emails here too.
	directoryModule := directory.NewModule(pool)
	seminarModule := seminar.NewModule(pool, val, eventBus, log)
	notificationModule := notification.NewModule(pool, directoryModule.Service, seminarModule.Service, eventBus, log)
	defer notificationModule.Close()

	dispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()
	go dispatcher.Run(ctx)

	planner, err := scheduler.NewReminderPlanner(cfg, pool, cfg.GetPolicy(), log)
	if err != nil {
		log.Error("failed to initialize reminder planner", "error", err)
		panic("failed to initialize reminder planner: " + err.Error())
	}
	defer func() { _ = planner.Close() }()
	go planner.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, pool, sender, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
