package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	schedulingRepo "bookify/database/repository/scheduling"
	"bookify/models"
)

// AppointmentRequest describes a client's booking attempt.
type AppointmentRequest struct {
	ClientID string `json:"clientId"`
	SlotID   string `json:"slotId"`
	Priority string `json:"priority,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// CreateAppointment runs the pre-flight conflict checks, then books the slot
// and inserts the confirmed appointment as one transaction. Analytics and
// workflow side effects run after commit, best-effort.
func (e *Engine) CreateAppointment(ctx context.Context, req AppointmentRequest) (*models.AppointmentDetail, error) {
	if req.ClientID == "" {
		return nil, NewValidationError("client id is required")
	}
	priority, err := normalizePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	report, err := e.DetectConflicts(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	if report.Conflict {
		return nil, NewConflictError("%s", report.Message)
	}

	// Re-read for the version the conditional update will be keyed on.
	slot, err := e.loadSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	appt := &models.Appointment{
		ID:        uuid.New().String(),
		ClientID:  req.ClientID,
		SlotID:    slot.ID,
		Priority:  priority,
		Status:    models.AppointmentStatusConfirmed,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.Tx.BookAppointmentTx(ctx, slot.ID, slot.Version, appt); err != nil {
		if errors.Is(err, schedulingRepo.ErrSlotUnavailable) {
			return nil, NewConflictError("slot is no longer available")
		}
		return nil, err
	}

	e.afterCommit("appointment:created", *appt, slot.ResourceID)
	return e.appointmentDetail(ctx, *appt)
}

// CancelAppointment marks the appointment cancelled and releases its slot in
// one transaction. Authorization is the caller's concern; the actor is only
// recorded in the emitted workflow event.
func (e *Engine) CancelAppointment(ctx context.Context, appointmentID, actorID, actorRole string) error {
	appt, err := e.loadAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.Status != models.AppointmentStatusConfirmed {
		return NewConflictError("appointment is not active")
	}

	if err := e.Tx.CancelAppointmentTx(ctx, appt.ID, appt.SlotID); err != nil {
		if errors.Is(err, schedulingRepo.ErrAppointmentNotLive) {
			return NewConflictError("appointment is not active")
		}
		return err
	}

	appt.Status = models.AppointmentStatusCancelled
	e.afterCommit("appointment:cancelled", *appt, "")
	return nil
}

// RescheduleAppointment atomically vacates the old slot, books the new one,
// retires the old appointment and creates its confirmed successor carrying a
// back-reference, priority, and provenance-prefixed notes.
func (e *Engine) RescheduleAppointment(ctx context.Context, appointmentID, newSlotID, actorID, actorRole string) (*models.AppointmentDetail, error) {
	appt, err := e.loadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.AppointmentStatusConfirmed {
		return nil, NewConflictError("appointment is not active")
	}
	if newSlotID == appt.SlotID {
		return nil, NewValidationError("appointment already occupies this slot")
	}

	newSlot, err := e.loadSlot(ctx, newSlotID)
	if err != nil {
		return nil, err
	}
	if newSlot.Status != models.SlotStatusAvailable {
		return nil, NewConflictError("new slot is not available")
	}

	now := e.now()
	notes := fmt.Sprintf("[rescheduled from %s]", appt.ID)
	if appt.Notes != "" {
		notes = fmt.Sprintf("%s %s", notes, appt.Notes)
	}
	newAppt := &models.Appointment{
		ID:              uuid.New().String(),
		ClientID:        appt.ClientID,
		SlotID:          newSlot.ID,
		Priority:        appt.Priority,
		Status:          models.AppointmentStatusConfirmed,
		RescheduledFrom: appt.ID,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := e.Tx.RescheduleAppointmentTx(ctx, appt.ID, appt.SlotID, newSlot.ID, newSlot.Version, newAppt); err != nil {
		switch {
		case errors.Is(err, schedulingRepo.ErrSlotUnavailable):
			return nil, NewConflictError("new slot is not available")
		case errors.Is(err, schedulingRepo.ErrAppointmentNotLive):
			return nil, NewConflictError("appointment is not active")
		}
		return nil, err
	}

	e.afterCommit("appointment:rescheduled", *newAppt, newSlot.ResourceID)
	return e.appointmentDetail(ctx, *newAppt)
}

// ListClientAppointments returns a client's appointments, newest first.
func (e *Engine) ListClientAppointments(ctx context.Context, clientID string) ([]models.Appointment, error) {
	if clientID == "" {
		return nil, NewValidationError("client id is required")
	}
	return e.Appointments.ListByClient(ctx, clientID)
}

// AppointmentForSlot resolves the confirmed appointment holding a booked
// slot. A booked slot has exactly one; an available slot has none.
func (e *Engine) AppointmentForSlot(ctx context.Context, slotID string) (*models.AppointmentDetail, error) {
	slot, err := e.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	appt, err := e.Appointments.GetConfirmedForSlot(ctx, slot.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("no active appointment holds this slot")
		}
		return nil, err
	}
	return e.appointmentDetail(ctx, *appt)
}

func (e *Engine) loadAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	if appointmentID == "" {
		return nil, NewValidationError("appointment id is required")
	}
	appt, err := e.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("appointment not found")
		}
		return nil, err
	}
	return appt, nil
}

// appointmentDetail joins the appointment with its slot and resource. The
// booking already committed, so lookup failures degrade the summary rather
// than fail the call.
func (e *Engine) appointmentDetail(ctx context.Context, appt models.Appointment) (*models.AppointmentDetail, error) {
	detail := &models.AppointmentDetail{Appointment: appt}

	slot, err := e.Slots.GetByID(ctx, appt.SlotID)
	if err != nil {
		return detail, nil
	}
	detail.Slot = *slot

	if slot.ResourceID != "" {
		if resource, err := e.Resources.GetByID(ctx, slot.ResourceID); err == nil {
			detail.Resource = resource
		}
	}
	return detail, nil
}

func normalizePriority(priority string) (string, error) {
	switch priority {
	case "":
		return models.PriorityNormal, nil
	case models.PriorityNormal, models.PriorityUrgent:
		return priority, nil
	default:
		return "", NewValidationError("priority must be %q or %q", models.PriorityNormal, models.PriorityUrgent)
	}
}
