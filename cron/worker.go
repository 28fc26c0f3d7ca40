package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookify/config"
	"bookify/services/scheduling"
	"bookify/utils"
)

// InitWorkflowWorker runs the async workflow consumer in background. It
// drains the post-commit appointment events emitted by the scheduling core.
func InitWorkflowWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
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
	mux.HandleFunc(scheduling.TypeAppointmentWorkflow, handleWorkflowTask)

	// Start async worker with retry logic
	go func() {
		log.Println("[WorkflowWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[WorkflowWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				time.Sleep(time.Duration(attempts) * 2 * time.Second)
				continue
			}
			return
		}
		log.Printf("[WorkflowWorker] Giving up after %d attempts", maxAttempts)
	}()
}

// handleWorkflowTask consumes one appointment event. Downstream workflow
// content (notifications, follow-up task generation) hangs off this hook.
func handleWorkflowTask(ctx context.Context, t *asynq.Task) error {
	var ev scheduling.WorkflowEvent
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return err
	}

	utils.GetLogger().Info("appointment workflow event",
		zap.String("event", ev.Event),
		zap.String("appointmentId", ev.AppointmentID),
		zap.String("clientId", ev.ClientID),
		zap.String("slotId", ev.SlotID),
		zap.Time("occurredAt", ev.OccurredAt))
	return nil
}
