package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"seminar_portal_backend/internal/email"
	"seminar_portal_backend/internal/events"
	"seminar_portal_backend/internal/notification/outbox"
	schedulingrepo "seminar_portal_backend/internal/scheduling/repository"
	"seminar_portal_backend/internal/seminar/domain"
	seminarrepo "seminar_portal_backend/internal/seminar/repository"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxOutboxAttempts = 5

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	schedules *schedulingrepo.Repository
	seminars  *seminarrepo.Repository
	outbox    *outbox.Repository
	mailer    email.Sender
	bus       events.Bus
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, mailer email.Sender, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		schedules: schedulingrepo.New(pool),
		seminars:  seminarrepo.New(pool),
		outbox:    outbox.New(pool),
		mailer:    mailer,
		bus:       bus,
		log:       log,
	}

	mux.HandleFunc(TaskSeminarReminder, w.handleSeminarReminder)
	mux.HandleFunc(TaskNotificationOutboxDue, w.handleNotificationOutboxDue)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleSeminarReminder re-checks the schedule and seminar at fire time. A
// cancelled seminar or a rescheduled start time silently drops the task.
func (w *Worker) handleSeminarReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSeminarReminderPayload(task)
	if err != nil {
		return err
	}

	scheduleID, err := uuid.Parse(payload.ScheduleID)
	if err != nil {
		return err
	}

	sched, err := w.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	seminar, err := w.seminars.GetByID(ctx, sched.SeminarID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}

	if domain.SeminarStatus(seminar.Status) != domain.StatusScheduled {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.SeminarReminderDue{
		BaseEvent:  events.NewBaseEvent(),
		SeminarID:  seminar.ID,
		ScheduleID: sched.ID,
		StudentID:  seminar.StudentID,
		Title:      seminar.Title,
		Room:       sched.Room,
		StartTime:  sched.StartTime,
	})

	return nil
}

// handleNotificationOutboxDue delivers a claimed outbox record. Failures are
// retried through the outbox itself rather than asynq, so the handler always
// returns nil once the record has been marked.
func (w *Worker) handleNotificationOutboxDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	if err := w.outbox.MarkProcessing(ctx, outboxID); err != nil {
		return err
	}

	rec, err := w.outbox.GetByID(ctx, outboxID)
	if err != nil {
		return err
	}

	if err := w.deliver(ctx, rec); err != nil {
		w.log.Warn("outbox delivery failed",
			"outboxId", rec.ID, "kind", rec.Kind, "attempts", rec.Attempts, "error", err)
		if rec.Attempts >= maxOutboxAttempts {
			return w.outbox.MarkFailed(ctx, rec.ID, err.Error())
		}
		msg := err.Error()
		return w.outbox.MarkPending(ctx, rec.ID, &msg)
	}

	return w.outbox.MarkSucceeded(ctx, rec.ID)
}

func (w *Worker) deliver(ctx context.Context, rec outbox.Record) error {
	switch rec.Kind {
	case outbox.KindEmail:
		if w.mailer == nil {
			return nil
		}

		var p outbox.EmailPayload
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return err
		}

		return w.mailer.Send(ctx, email.Message{
			ToEmail:  p.ToEmail,
			ToName:   p.ToName,
			Template: p.Template,
			Subject:  p.Subject,
			Heading:  p.Heading,
			Body:     p.Body,
		})
	default:
		return fmt.Errorf("unknown outbox kind %q", rec.Kind)
	}
}
