package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"labreserve/config"
	"labreserve/models"
	"labreserve/services/notification"
	"labreserve/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Mailer delivers a rendered notification. SMTP wiring lives behind this
// interface so the worker can run without a mail server.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes the message to the application log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	utils.GetLogger().Info("booking notification",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// InitNotifyWorker runs the async notification worker in background.
func InitNotifyWorker(mailer Mailer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingNotify, handleNotifyTask(mailer))

	go monitorRedisConnection()

	go func() {
		log.Println("[NotifyWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleNotifyTask(mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.BookingNotification
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifyHandler] Invalid payload: %v", err)
			return err
		}

		subject, body := renderNotification(p)
		if err := mailer.Send(ctx, p.OwnerID, subject, body); err != nil {
			log.Printf("[NotifyHandler] Failed to deliver notification to %s: %v", p.OwnerID, err)
			return err
		}
		return nil
	}
}

func renderNotification(p models.BookingNotification) (subject, body string) {
	switch p.Kind {
	case models.NotifyChange:
		subject = fmt.Sprintf("Your %s booking was moved", p.ToolName)
		body = fmt.Sprintf(
			"Hi %s,\n\n%s moved your %s booking from %s %s-%s to %s %s-%s.",
			p.OwnerName, p.ActorName, p.ToolName,
			p.Date, p.StartTime, p.EndTime,
			p.NewDate, p.NewStartTime, p.NewEndTime,
		)
	default:
		subject = fmt.Sprintf("Your %s booking was cancelled", p.ToolName)
		body = fmt.Sprintf(
			"Hi %s,\n\n%s cancelled your %s booking on %s %s-%s.",
			p.OwnerName, p.ActorName, p.ToolName,
			p.Date, p.StartTime, p.EndTime,
		)
	}
	return subject, body
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotifyWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
