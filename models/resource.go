package models

import "time"

// Maintenance window statuses.
const (
	MaintenanceStatusPending   = "pending"
	MaintenanceStatusCompleted = "completed"
)

// MaintenanceWindow is a scheduled service interval on a resource. A pending
// window falling inside a slot's time range blocks new bookings on that slot.
type MaintenanceWindow struct {
	ID          string    `bson:"id" json:"id"`
	ScheduledAt time.Time `bson:"scheduledAt" json:"scheduledAt"`
	Status      string    `bson:"status" json:"status"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Resource is a bookable asset: a room, a piece of equipment, or a staff-time
// category.
type Resource struct {
	ID          string              `bson:"id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Capacity    int                 `bson:"capacity" json:"capacity"`
	Status      string              `bson:"status" json:"status"`
	UsageCount  int                 `bson:"usageCount" json:"usageCount"`
	Deleted     bool                `bson:"deleted" json:"-"`
	Maintenance []MaintenanceWindow `bson:"maintenance,omitempty" json:"maintenance,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
