package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"coachbook/config"
	"coachbook/models"
	"coachbook/services/calendar"
	"coachbook/services/notification"
	"coachbook/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitSideEffectWorker runs the async worker for calendar sync and
// notification delivery in the background.
func InitSideEffectWorker(provider calendar.Provider, mailer notification.Mailer) {
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
	mux.HandleFunc(tasks.TypeCalendarSync, handleCalendarSyncTask(provider))
	mux.HandleFunc(tasks.TypeNotifySend, handleNotifySendTask(mailer))

	go monitorRedisConnection()

	go func() {
		log.Println("[SideEffectWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SideEffectWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SideEffectWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleCalendarSyncTask(provider calendar.Provider) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.CalendarSyncPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CalendarSync] 🔴 Invalid payload: %v", err)
			return err
		}

		log.Printf("[CalendarSync] 📅 Creating event for booking %s slot %s", p.DraftID, p.SlotID)

		if err := provider.CreateEvent(ctx, p); err != nil {
			// Returning the error lets asynq retry with backoff; the task
			// id keyed on (draftId, slotId) keeps retries from doubling up.
			log.Printf("[CalendarSync] ❌ Failed to create event: %v", err)
			return err
		}
		return nil
	}
}

func handleNotifySendTask(mailer notification.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifySend] 🔴 Invalid payload: %v", err)
			return err
		}

		log.Printf("[NotifySend] ✉️ Sending %s for booking %s", p.Template, p.DraftID)

		if err := mailer.SendTemplated(ctx, p.CustomerID, p.Template, p.Data); err != nil {
			log.Printf("[NotifySend] ❌ Failed to send notification: %v", err)
			return err
		}
		return nil
	}
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
			log.Printf("[SideEffectWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
