package scheduling

import (
	"context"
	"time"

	slotRepo "bookify/database/repository/slot"
)

// intervalsOverlap applies the half-open interval rule: [s1,e1) and [s2,e2)
// intersect iff s1 < e2 and e1 > s2. Touching endpoints do not conflict.
func intervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// HasOverlap reports whether the candidate window intersects any active slot
// on the staff axis or the resource axis. A hit on either axis is a conflict.
// Supplying neither axis is a caller error: the conflict scope would be
// undefined.
func (e *Engine) HasOverlap(ctx context.Context, q slotRepo.OverlapQuery) (bool, error) {
	if q.StaffID == "" && q.ResourceID == "" {
		return false, NewValidationError("overlap check requires a staff or resource id")
	}
	if !q.End.After(q.Start) {
		return false, NewValidationError("end time must be after start time")
	}

	slots, err := e.Slots.FindOverlapping(ctx, q)
	if err != nil {
		return false, err
	}
	return len(slots) > 0, nil
}
