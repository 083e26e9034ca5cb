package scheduler

import (
	"context"
	"time"

	"seminar_portal_backend/internal/notification/outbox"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationOutboxDispatcher claims pending outbox records and hands them to
// the worker queue. Claiming flips the record to enqueued, so a crashed
// dispatcher leaves nothing stuck in pending.
type NotificationOutboxDispatcher struct {
	client *Client
	repo   *outbox.Repository
	log    *logger.Logger
}

func NewNotificationOutboxDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*NotificationOutboxDispatcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &NotificationOutboxDispatcher{
		client: client,
		repo:   outbox.New(pool),
		log:    log,
	}, nil
}

func (d *NotificationOutboxDispatcher) Close() error {
	if d == nil {
		return nil
	}
	return d.client.Close()
}

func (d *NotificationOutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		records, err := d.repo.ClaimPending(ctx, 50)
		if err != nil {
			d.log.Warn("outbox claim failed", "error", err)
			continue
		}

		for _, rec := range records {
			err := d.client.EnqueueOutboxDue(ctx, NotificationOutboxDuePayload{
				OutboxID: rec.ID.String(),
				UserID:   rec.UserID.String(),
			}, rec.RunAt)
			if err != nil {
				msg := err.Error()
				_ = d.repo.MarkPending(ctx, rec.ID, &msg)
			}
		}
	}
}
