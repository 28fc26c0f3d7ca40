package scheduling

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	slotRepo "bookify/database/repository/slot"
	"bookify/models"
	"bookify/utils"
)

// CreateSlotRequest describes a single slot to offer.
type CreateSlotRequest struct {
	StaffID    string    `json:"staffId"`
	ResourceID string    `json:"resourceId,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Recurring  bool      `json:"recurring,omitempty"`
}

// CreateSlot validates the time range, checks both conflict axes, and inserts
// the slot as available with version 1.
func (e *Engine) CreateSlot(ctx context.Context, req CreateSlotRequest) (*models.Slot, error) {
	if req.StaffID == "" {
		return nil, NewValidationError("staff id is required")
	}
	if !req.End.After(req.Start) {
		return nil, NewValidationError("end time must be after start time")
	}

	release, err := e.lockCreation(ctx, req.StaffID, req.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	overlaps, err := e.HasOverlap(ctx, slotRepo.OverlapQuery{
		Start:      req.Start,
		End:        req.End,
		StaffID:    req.StaffID,
		ResourceID: req.ResourceID,
	})
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, NewConflictError("time range overlaps an existing slot")
	}

	slot := &models.Slot{
		StaffID:    req.StaffID,
		ResourceID: req.ResourceID,
		StartTime:  req.Start,
		EndTime:    req.End,
		Status:     models.SlotStatusAvailable,
		Recurring:  req.Recurring,
		Version:    1,
	}
	if err := e.Slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("slot created",
		zap.String("slotId", slot.ID),
		zap.String("staffId", slot.StaffID),
		zap.Time("start", slot.StartTime))
	return slot, nil
}

// BookSlot performs the conditional available→booked transition keyed on the
// version read here, so two concurrent attempts against the same slot cannot
// both succeed.
func (e *Engine) BookSlot(ctx context.Context, slotID string) (*models.Slot, error) {
	slot, err := e.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != models.SlotStatusAvailable {
		return nil, NewConflictError("slot is no longer available")
	}

	if err := e.Slots.MarkBooked(ctx, slotID, slot.Version); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewConflictError("slot is no longer available")
		}
		return nil, err
	}

	slot.Status = models.SlotStatusBooked
	slot.Version++
	return slot, nil
}

// ReleaseSlot returns a slot to available. It is idempotent: releasing an
// already-available or absent slot is not an error.
func (e *Engine) ReleaseSlot(ctx context.Context, slotID string) error {
	if slotID == "" {
		return NewValidationError("slot id is required")
	}
	return e.Slots.MarkAvailable(ctx, slotID)
}

// SoftDeleteSlot marks an available slot deleted. Booked slots are protected:
// the appointment must be cancelled first.
func (e *Engine) SoftDeleteSlot(ctx context.Context, slotID string) error {
	slot, err := e.loadSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.Status == models.SlotStatusBooked {
		return NewConflictError("cannot delete a booked slot, cancel the appointment first")
	}

	if err := e.Slots.SoftDelete(ctx, slotID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The slot got booked or deleted between the read and the
			// conditional update.
			return NewConflictError("slot changed concurrently, try again")
		}
		return err
	}
	return nil
}

// ListSlots returns the slots of one staff member starting within [from, to),
// ordered by start time.
func (e *Engine) ListSlots(ctx context.Context, staffID string, from, to time.Time) ([]models.Slot, error) {
	if staffID == "" {
		return nil, NewValidationError("staff id is required")
	}
	if !to.After(from) {
		return nil, NewValidationError("end time must be after start time")
	}
	return e.Slots.ListByStaffAndRange(ctx, staffID, from, to)
}

func (e *Engine) loadSlot(ctx context.Context, slotID string) (*models.Slot, error) {
	if slotID == "" {
		return nil, NewValidationError("slot id is required")
	}
	slot, err := e.Slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("slot not found")
		}
		return nil, err
	}
	return slot, nil
}
