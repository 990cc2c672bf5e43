package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"labreserve/config"
	"labreserve/models"

	"github.com/hibiken/asynq"
)

// TypeBookingNotify is the asynq task type for booking emails.
const TypeBookingNotify = "booking:notify"

// NotificationService defines methods for queueing booking emails. A user
// acting on their own booking produces no notification; the emails exist so
// that admin interventions never go unnoticed.
type NotificationService interface {
	NotifyCancellation(ctx context.Context, b models.Booking, actor models.Requester) error
	NotifyChange(ctx context.Context, before, after models.Booking, actor models.Requester) error
}

// DefaultNotificationService enqueues notifications for the background
// worker instead of sending inline, so booking mutations never wait on a
// mail server.
type DefaultNotificationService struct {
	client *asynq.Client
}

func NewDefaultNotificationService() *DefaultNotificationService {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &DefaultNotificationService{client: client}
}

func (s *DefaultNotificationService) NotifyCancellation(ctx context.Context, b models.Booking, actor models.Requester) error {
	if actor.UserID == b.UserID {
		return nil
	}
	return s.enqueue(ctx, models.BookingNotification{
		Kind:      models.NotifyCancellation,
		OwnerID:   b.UserID,
		OwnerName: b.UserName,
		ActorName: actor.UserName,
		ToolName:  b.ToolName,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	})
}

func (s *DefaultNotificationService) NotifyChange(ctx context.Context, before, after models.Booking, actor models.Requester) error {
	if actor.UserID == before.UserID {
		return nil
	}
	return s.enqueue(ctx, models.BookingNotification{
		Kind:         models.NotifyChange,
		OwnerID:      before.UserID,
		OwnerName:    before.UserName,
		ActorName:    actor.UserName,
		ToolName:     before.ToolName,
		Date:         before.Date,
		StartTime:    before.StartTime,
		EndTime:      before.EndTime,
		NewDate:      after.Date,
		NewStartTime: after.StartTime,
		NewEndTime:   after.EndTime,
	})
}

func (s *DefaultNotificationService) enqueue(ctx context.Context, p models.BookingNotification) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, asynq.NewTask(TypeBookingNotify, payload)); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}
