package models

import "time"

// Slot statuses. A slot is a mutual-exclusion point: at most one active
// appointment may hold it while it is booked.
const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
)

// Slot represents a concrete time window offered by one staff member,
// optionally tied to a resource. The [StartTime, EndTime) window is half-open:
// slots touching at an endpoint do not overlap.
type Slot struct {
	ID         string    `bson:"id" json:"id"`
	StaffID    string    `bson:"staffId" json:"staffId"`
	ResourceID string    `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	StartTime  time.Time `bson:"startTime" json:"startTime"`
	EndTime    time.Time `bson:"endTime" json:"endTime"`
	Status     string    `bson:"status" json:"status"`
	Recurring  bool      `bson:"recurring,omitempty" json:"recurring,omitempty"`
	Version    int       `bson:"version" json:"version"`
	Deleted    bool      `bson:"deleted" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Duration returns the length of the slot window.
func (s Slot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
