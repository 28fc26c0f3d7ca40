package scheduling

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookify/models"
)

// ConflictReport is the result of the pre-flight booking checks.
type ConflictReport struct {
	Conflict bool   `json:"conflict"`
	Message  string `json:"message,omitempty"`
}

// DetectConflicts runs the ordered pre-flight checks for booking a slot,
// short-circuiting on the first failure:
//  1. the slot exists and is available,
//  2. the slot's resource has no pending maintenance scheduled inside the
//     slot's window,
//  3. the staff member's committed booked time for that day stays under the
//     fatigue ceiling.
func (e *Engine) DetectConflicts(ctx context.Context, slotID string) (*ConflictReport, error) {
	slot, err := e.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != models.SlotStatusAvailable {
		return &ConflictReport{Conflict: true, Message: "slot is no longer available"}, nil
	}

	if slot.ResourceID != "" {
		// Maintenance uses the closed interval [start, end]: a window
		// scheduled exactly at either bound still blocks the booking.
		pending, err := e.Resources.HasPendingMaintenanceIn(ctx, slot.ResourceID, slot.StartTime, slot.EndTime)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		if pending {
			return &ConflictReport{Conflict: true, Message: "resource has maintenance scheduled during this slot"}, nil
		}
	}

	dayStart := startOfDay(slot.StartTime)
	booked, err := e.Slots.SumBookedDurationForDay(ctx, slot.StaffID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	points := booked.Hours() * e.fatiguePointsPerHour()
	if points > e.fatigueCeiling() {
		return &ConflictReport{Conflict: true, Message: "staff member is at maximum capacity for today"}, nil
	}

	return &ConflictReport{}, nil
}

// SuggestAlternatives returns up to the configured number of available slots
// sharing the original's staff member or resource, starting no earlier than
// the original, ordered by start time. Advisory only; no mutation.
func (e *Engine) SuggestAlternatives(ctx context.Context, slotID string) ([]models.Slot, error) {
	slot, err := e.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	return e.Slots.FindAlternatives(ctx, slot.StaffID, slot.ResourceID, slot.ID, slot.StartTime, e.maxSuggestions())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
