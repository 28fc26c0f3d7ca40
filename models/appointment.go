package models

import "time"

// Appointment statuses. Cancelled and rescheduled are terminal; rescheduling
// spawns a fresh confirmed appointment carrying a back-reference.
const (
	AppointmentStatusConfirmed   = "confirmed"
	AppointmentStatusCancelled   = "cancelled"
	AppointmentStatusRescheduled = "rescheduled"
)

// Appointment priorities.
const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// Appointment is a client's binding claim on exactly one slot.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`
	ClientID        string    `bson:"clientId" json:"clientId"`
	SlotID          string    `bson:"slotId" json:"slotId"`
	Priority        string    `bson:"priority" json:"priority"`
	Status          string    `bson:"status" json:"status"`
	RescheduledFrom string    `bson:"rescheduledFrom,omitempty" json:"rescheduledFrom,omitempty"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Deleted         bool      `bson:"deleted" json:"-"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentDetail is the booking result returned to callers: the appointment
// joined with its slot and, when the slot is resource-backed, the resource.
type AppointmentDetail struct {
	Appointment Appointment `json:"appointment"`
	Slot        Slot        `json:"slot"`
	Resource    *Resource   `json:"resource,omitempty"`
}
