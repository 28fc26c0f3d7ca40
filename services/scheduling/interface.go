package scheduling

import (
	"context"
	"time"

	appointmentRepo "bookify/database/repository/appointment"
	resourceRepo "bookify/database/repository/resource"
	schedulingRepo "bookify/database/repository/scheduling"
	slotRepo "bookify/database/repository/slot"
	"bookify/models"
)

// Default fatigue tunables, used when the Engine is constructed without
// explicit configuration.
const (
	DefaultFatiguePointsPerHour = 15
	DefaultFatigueCeilingPoints = 85
	DefaultMaxSuggestions       = 3
)

// SchedulingService is the scheduling core consumed by the HTTP layer.
type SchedulingService interface {
	CreateSlot(ctx context.Context, req CreateSlotRequest) (*models.Slot, error)
	BookSlot(ctx context.Context, slotID string) (*models.Slot, error)
	ReleaseSlot(ctx context.Context, slotID string) error
	SoftDeleteSlot(ctx context.Context, slotID string) error
	GenerateBatch(ctx context.Context, req BatchRequest) ([]models.Slot, error)

	ListSlots(ctx context.Context, staffID string, from, to time.Time) ([]models.Slot, error)

	CreateAppointment(ctx context.Context, req AppointmentRequest) (*models.AppointmentDetail, error)
	CancelAppointment(ctx context.Context, appointmentID, actorID, actorRole string) error
	RescheduleAppointment(ctx context.Context, appointmentID, newSlotID, actorID, actorRole string) (*models.AppointmentDetail, error)
	ListClientAppointments(ctx context.Context, clientID string) ([]models.Appointment, error)
	AppointmentForSlot(ctx context.Context, slotID string) (*models.AppointmentDetail, error)

	HasOverlap(ctx context.Context, q slotRepo.OverlapQuery) (bool, error)
	DetectConflicts(ctx context.Context, slotID string) (*ConflictReport, error)
	SuggestAlternatives(ctx context.Context, slotID string) ([]models.Slot, error)
}

// Engine is the production implementation of SchedulingService.
type Engine struct {
	Slots        slotRepo.SlotRepository
	Appointments appointmentRepo.AppointmentRepository
	Resources    resourceRepo.ResourceRepository
	Tx           schedulingRepo.SchedulingRepository

	// Locks serializes slot creation per staff member. Nil disables locking
	// (single-writer deployments and tests).
	Locks CreationLocker

	// Workflow receives post-commit appointment events, best-effort.
	Workflow WorkflowSink

	// Now supplies the clock; nil means time.Now.
	Now func() time.Time

	// Fatigue tunables; zero values fall back to the defaults above.
	FatiguePointsPerHour int
	FatigueCeilingPoints int
	MaxSuggestions       int
}

var _ SchedulingService = (*Engine)(nil)

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) fatiguePointsPerHour() float64 {
	if e.FatiguePointsPerHour > 0 {
		return float64(e.FatiguePointsPerHour)
	}
	return DefaultFatiguePointsPerHour
}

func (e *Engine) fatigueCeiling() float64 {
	if e.FatigueCeilingPoints > 0 {
		return float64(e.FatigueCeilingPoints)
	}
	return DefaultFatigueCeilingPoints
}

func (e *Engine) maxSuggestions() int {
	if e.MaxSuggestions > 0 {
		return e.MaxSuggestions
	}
	return DefaultMaxSuggestions
}
