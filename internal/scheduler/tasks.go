package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskSeminarReminder = "seminar.reminder"

const TaskNotificationOutboxDue = "notification.outbox.due"

type SeminarReminderPayload struct {
	ScheduleID string `json:"scheduleId"`
	SeminarID  string `json:"seminarId"`
}

type NotificationOutboxDuePayload struct {
	OutboxID string `json:"outboxId"`
	UserID   string `json:"userId"`
}

func NewSeminarReminderTask(payload SeminarReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSeminarReminder, data), nil
}

func ParseSeminarReminderPayload(task *asynq.Task) (SeminarReminderPayload, error) {
	var payload SeminarReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SeminarReminderPayload{}, err
	}
	return payload, nil
}

func NewNotificationOutboxDueTask(payload NotificationOutboxDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationOutboxDue, data), nil
}

func ParseNotificationOutboxDuePayload(task *asynq.Task) (NotificationOutboxDuePayload, error) {
	var payload NotificationOutboxDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationOutboxDuePayload{}, err
	}
	return payload, nil
}
