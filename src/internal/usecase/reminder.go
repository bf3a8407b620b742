package usecase

import (
	"context"
	"encoding/json"
	"time"

	"dispatch-service/src/internal/model"
	"dispatch-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

// TypeRatingReminder is the asynq task type for the post-delivery follow-up.
const TypeRatingReminder = "notification:rating-reminder"

// RatingReminderDelay is how long after delivery the customer is asked to
// rate the order.
const RatingReminderDelay = 10 * time.Minute

// ReminderScheduler schedules the delayed rating reminder.
type ReminderScheduler interface {
	Schedule(ctx context.Context, payload *model.RatingReminderPayload, delay time.Duration) error
}

// AsynqReminderScheduler persists the reminder as a redis-backed task, so a
// process restart inside the delay window no longer loses it.
type AsynqReminderScheduler struct {
	Client *asynq.Client
	Log    log.Log
}

func NewAsynqReminderScheduler(client *asynq.Client, logger log.Log) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{Client: client, Log: logger}
}

func (s *AsynqReminderScheduler) Schedule(ctx context.Context, payload *model.RatingReminderPayload, delay time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeRatingReminder, data)
	info, err := s.Client.EnqueueContext(ctx, task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	s.Log.Info("reminder-scheduler", "rating reminder enqueued", "Schedule", info.ID)
	return nil
}
