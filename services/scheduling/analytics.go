package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bookify/models"
	"bookify/utils"
)

const TypeAppointmentWorkflow = "workflow:appointment"

// WorkflowEvent is the post-commit payload handed to the workflow queue.
type WorkflowEvent struct {
	Event         string    `json:"event"`
	AppointmentID string    `json:"appointmentId"`
	ClientID      string    `json:"clientId"`
	SlotID        string    `json:"slotId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// WorkflowSink receives appointment events after a booking transaction
// commits. Implementations must tolerate being slow or down: the core calls
// them best-effort and never ties the booking outcome to them.
type WorkflowSink interface {
	Enqueue(ctx context.Context, ev WorkflowEvent) error
}

// AsynqWorkflowSink enqueues workflow events as asynq tasks.
type AsynqWorkflowSink struct {
	Client *asynq.Client
}

func (s *AsynqWorkflowSink) Enqueue(ctx context.Context, ev WorkflowEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeAppointmentWorkflow, payload)
	_, err = s.Client.EnqueueContext(ctx, task)
	return err
}

// afterCommit runs the fire-and-forget side effects of a committed booking
// mutation: the resource usage counter and the workflow queue. Failures are
// logged and swallowed; they never roll back or block the booking result.
func (e *Engine) afterCommit(event string, appt models.Appointment, resourceID string) {
	logger := utils.GetLogger()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if resourceID != "" {
			if err := e.Resources.IncrementUsage(ctx, resourceID); err != nil {
				logger.Warn("failed to bump resource usage counter",
					zap.String("resourceId", resourceID), zap.Error(err))
			}
		}

		if e.Workflow != nil {
			ev := WorkflowEvent{
				Event:         event,
				AppointmentID: appt.ID,
				ClientID:      appt.ClientID,
				SlotID:        appt.SlotID,
				OccurredAt:    e.now(),
			}
			if err := e.Workflow.Enqueue(ctx, ev); err != nil {
				logger.Warn("failed to enqueue workflow event",
					zap.String("event", event),
					zap.String("appointmentId", appt.ID),
					zap.Error(err))
			}
		}
	}()
}
