package scheduler

import (
	"context"
	"time"

	schedulingrepo "seminar_portal_backend/internal/scheduling/repository"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const reminderScanInterval = time.Minute

// ReminderPlanner periodically scans upcoming schedules and enqueues a
// reminder task for each, timed one reminder lead before the start. Task IDs
// make the scan idempotent, so overlapping windows are harmless.
type ReminderPlanner struct {
	client    *Client
	schedules *schedulingrepo.Repository
	lead      time.Duration
	log       *logger.Logger
}

func NewReminderPlanner(cfg config.SchedulerConfig, pool *pgxpool.Pool, policy config.Policy, log *logger.Logger) (*ReminderPlanner, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	lead := policy.ReminderLead()
	if lead <= 0 {
		lead = 24 * time.Hour
	}

	return &ReminderPlanner{
		client:    client,
		schedules: schedulingrepo.New(pool),
		lead:      lead,
		log:       log,
	}, nil
}

func (p *ReminderPlanner) Close() error {
	if p == nil {
		return nil
	}
	return p.client.Close()
}

func (p *ReminderPlanner) Run(ctx context.Context) {
	if p == nil || p.client == nil || p.schedules == nil {
		return
	}

	ticker := time.NewTicker(reminderScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := time.Now()
		schedules, err := p.schedules.ListUpcoming(ctx, now, now.Add(p.lead+reminderScanInterval))
		if err != nil {
			p.log.Warn("reminder scan failed", "error", err)
			continue
		}

		for _, sched := range schedules {
			runAt := sched.StartTime.Add(-p.lead)
			if runAt.Before(now) {
				runAt = now
			}

			err := p.client.ScheduleSeminarReminder(ctx, SeminarReminderPayload{
				ScheduleID: sched.ID.String(),
				SeminarID:  sched.SeminarID.String(),
			}, sched.StartTime, runAt)
			if err != nil {
				p.log.Warn("failed to enqueue seminar reminder",
					"scheduleId", sched.ID, "error", err)
			}
		}
	}
}
