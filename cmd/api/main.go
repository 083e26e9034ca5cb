package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seminar_portal_backend/internal/approval"
	"seminar_portal_backend/internal/attendance"
	"seminar_portal_backend/internal/directory"
	"seminar_portal_backend/internal/events"
	apphttp "seminar_portal_backend/internal/http"
	"seminar_portal_backend/internal/http/router"
	"seminar_portal_backend/internal/notification"
	"seminar_portal_backend/internal/scheduling"
	schedulingservice "seminar_portal_backend/internal/scheduling/service"
	"seminar_portal_backend/internal/seminar"
	"seminar_portal_backend/internal/storage"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/db"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	policy := cfg.GetPolicy()

	// Storage service for QR code, evidence and seminar file objects (MinIO).
	// The portal runs without it; schedules then carry no stored QR image.
	var storageSvc *storage.Service
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		storageSvc = storage.NewService(store, cfg)
		if err := withRetry(ctx, log, "ensure storage buckets", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBuckets(ctx)
		}); err != nil {
			log.Error("failed to ensure storage buckets exist", "error", err)
			panic("failed to ensure storage buckets exist: " + err.Error())
		}
		log.Info("storage service initialized",
			"qrBucket", cfg.GetMinioBucketQRCodes(),
			"evidenceBucket", cfg.GetMinioBucketEvidence(),
			"seminarFilesBucket", cfg.GetMinioBucketSeminarFiles(),
		)
	} else {
		log.Warn("MinIO not configured; file storage disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	directoryModule := directory.NewModule(pool)
	seminarModule := seminar.NewModule(pool, val, eventBus, log)

	// Approval module gates decisions on seminar state; the seminar module in
	// turn creates approval slots on verification. The cycle is broken with a
	// post-construction setter.
	approvalModule := approval.NewModule(pool, val, seminarModule.Service, eventBus, log)
	seminarModule.Service.SetApprovalManager(approvalModule.Service)

	var qrStore schedulingservice.QRStore
	if storageSvc != nil {
		qrStore = storageSvc
	}
	schedulingModule := scheduling.NewModule(pool, val, approvalModule.Service, seminarModule.Service, qrStore, eventBus, policy, log)

	attendanceModule := attendance.NewModule(pool, val, schedulingModule.Service, seminarModule.Service, eventBus, policy, log)

	// Notification module subscribes to domain events and fans them out to
	// in-app notifications, SSE streams and the email outbox.
	notificationModule := notification.NewModule(pool, directoryModule.Service, seminarModule.Service, eventBus, log)
	defer notificationModule.Close()

	modules := []apphttp.Module{
		directoryModule,
		seminarModule,
		approvalModule,
		schedulingModule,
		attendanceModule,
		notificationModule,
	}
	if storageSvc != nil {
		modules = append(modules, storage.NewModule(storageSvc, val))
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
