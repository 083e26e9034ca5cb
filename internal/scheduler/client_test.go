package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "test" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func newTestClient(t *testing.T) (*Client, *asynq.Inspector) {
	t.Helper()

	srv := miniredis.RunT(t)
	cfg := testSchedulerConfig{redisURL: "redis://" + srv.Addr()}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	t.Cleanup(func() { inspector.Close() })

	return client, inspector
}

func TestScheduleSeminarReminderIsIdempotent(t *testing.T) {
	client, inspector := newTestClient(t)

	startTime := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	payload := SeminarReminderPayload{
		ScheduleID: "0c6f9f3e-9a1d-4e63-8f14-5b2a7c9d1e20",
		SeminarID:  "7d3b1a52-44c8-4f0b-9e6d-2f8a0c4b6d91",
	}

	runAt := startTime.Add(-24 * time.Hour)
	for i := 0; i < 3; i++ {
		if err := client.ScheduleSeminarReminder(context.Background(), payload, startTime, runAt); err != nil {
			t.Fatalf("ScheduleSeminarReminder attempt %d: %v", i+1, err)
		}
	}

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task after repeated enqueues, got %d", len(tasks))
	}

	got, err := ParseSeminarReminderPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseSeminarReminderPayload: %v", err)
	}
	if got != payload {
		t.Errorf("payload = %+v, want %+v", got, payload)
	}
}

func TestScheduleSeminarReminderNewStartTimeEnqueuesAgain(t *testing.T) {
	client, inspector := newTestClient(t)

	payload := SeminarReminderPayload{
		ScheduleID: "0c6f9f3e-9a1d-4e63-8f14-5b2a7c9d1e20",
		SeminarID:  "7d3b1a52-44c8-4f0b-9e6d-2f8a0c4b6d91",
	}

	first := time.Now().Add(48 * time.Hour)
	if err := client.ScheduleSeminarReminder(context.Background(), payload, first, first.Add(-24*time.Hour)); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}

	rescheduled := first.Add(72 * time.Hour)
	if err := client.ScheduleSeminarReminder(context.Background(), payload, rescheduled, rescheduled.Add(-24*time.Hour)); err != nil {
		t.Fatalf("second enqueue: %v", err)
	}

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 scheduled tasks after reschedule, got %d", len(tasks))
	}
}

func TestEnqueueOutboxDue(t *testing.T) {
	client, inspector := newTestClient(t)

	payload := NotificationOutboxDuePayload{
		OutboxID: "a1e2c3d4-5f60-4718-92ab-cd34ef56ab78",
		UserID:   "b2f3d4e5-6071-4829-a3bc-de45f067bc89",
	}

	if err := client.EnqueueOutboxDue(context.Background(), payload, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("EnqueueOutboxDue: %v", err)
	}

	tasks, err := inspector.ListScheduledTasks("test")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskNotificationOutboxDue {
		t.Errorf("task type = %q, want %q", tasks[0].Type, TaskNotificationOutboxDue)
	}

	got, err := ParseNotificationOutboxDuePayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseNotificationOutboxDuePayload: %v", err)
	}
	if got != payload {
		t.Errorf("payload = %+v, want %+v", got, payload)
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var client *Client

	if err := client.ScheduleSeminarReminder(context.Background(), SeminarReminderPayload{}, time.Now(), time.Now()); err != nil {
		t.Errorf("nil client ScheduleSeminarReminder: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("nil client Close: %v", err)
	}
}
