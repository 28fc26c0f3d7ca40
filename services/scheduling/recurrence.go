package scheduling

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	schedulingRepo "bookify/database/repository/scheduling"
	slotRepo "bookify/database/repository/slot"
	"bookify/models"
	"bookify/utils"
)

// BatchRequest expands one slot template across a day-of-week/week-count
// pattern.
type BatchRequest struct {
	StaffID    string         `json:"staffId"`
	ResourceID string         `json:"resourceId,omitempty"`
	BaseStart  time.Time      `json:"baseStart"`
	BaseEnd    time.Time      `json:"baseEnd"`
	DaysOfWeek []time.Weekday `json:"daysOfWeek"`
	WeekCount  int            `json:"weekCount"`
}

// nextWeekday advances base to the next occurrence of wd, forward-only: a
// base already on wd is returned unchanged.
func nextWeekday(base time.Time, wd time.Weekday) time.Time {
	diff := (int(wd) - int(base.Weekday()) + 7) % 7
	return base.AddDate(0, 0, diff)
}

// GenerateBatch stages one slot instance per requested weekday per week,
// validates every instance against existing slots and against the rest of
// the batch, and commits the whole set atomically. A single conflicting
// instance rejects the entire batch; partial batches are never persisted.
func (e *Engine) GenerateBatch(ctx context.Context, req BatchRequest) ([]models.Slot, error) {
	if req.StaffID == "" {
		return nil, NewValidationError("staff id is required")
	}
	if !req.BaseEnd.After(req.BaseStart) {
		return nil, NewValidationError("end time must be after start time")
	}
	if req.WeekCount < 1 {
		return nil, NewValidationError("week count must be at least 1")
	}
	if len(req.DaysOfWeek) == 0 {
		return nil, NewValidationError("at least one day of week is required")
	}
	for _, wd := range req.DaysOfWeek {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, NewValidationError("day of week %d is out of range", wd)
		}
	}

	release, err := e.lockCreation(ctx, req.StaffID, req.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	duration := req.BaseEnd.Sub(req.BaseStart)
	now := e.now()

	var staged []models.Slot
	for week := 0; week < req.WeekCount; week++ {
		weekBase := req.BaseStart.AddDate(0, 0, 7*week)
		for _, wd := range req.DaysOfWeek {
			start := nextWeekday(weekBase, wd)
			end := start.Add(duration)

			for _, other := range staged {
				if intervalsOverlap(start, end, other.StartTime, other.EndTime) {
					return nil, NewConflictError("batch instance starting at %s conflicts with another instance in the batch", start.Format(time.RFC3339))
				}
			}

			overlaps, err := e.HasOverlap(ctx, slotRepo.OverlapQuery{
				Start:      start,
				End:        end,
				StaffID:    req.StaffID,
				ResourceID: req.ResourceID,
			})
			if err != nil {
				return nil, err
			}
			if overlaps {
				return nil, NewConflictError("batch instance starting at %s conflicts with an existing slot", start.Format(time.RFC3339))
			}

			staged = append(staged, models.Slot{
				ID:         uuid.New().String(),
				StaffID:    req.StaffID,
				ResourceID: req.ResourceID,
				StartTime:  start,
				EndTime:    end,
				Status:     models.SlotStatusAvailable,
				Recurring:  true,
				Version:    1,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
	}

	sort.Slice(staged, func(i, j int) bool {
		return staged[i].StartTime.Before(staged[j].StartTime)
	})

	if err := e.Tx.InsertSlotBatchTx(ctx, staged); err != nil {
		var conflict *schedulingRepo.BatchConflictError
		if errors.As(err, &conflict) {
			return nil, NewConflictError("batch instance starting at %s conflicts with an existing slot", conflict.ConflictingStart.Format(time.RFC3339))
		}
		return nil, err
	}

	utils.GetLogger().Info("recurring batch committed",
		zap.String("staffId", req.StaffID),
		zap.Int("slots", len(staged)))
	return staged, nil
}
