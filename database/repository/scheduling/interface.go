// File: database/repository/scheduling/interface.go
package schedulingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookify/config"
	"bookify/database"
	"bookify/models"
)

// Sentinel errors raised when a conditional update inside a transaction
// matches nothing, meaning a concurrent writer won the race.
var (
	ErrSlotUnavailable    = errors.New("slot is no longer available")
	ErrAppointmentNotLive = errors.New("appointment is not in a confirmed state")
)

// BatchConflictError reports the first staged slot of a batch that collided
// with an existing slot at commit time.
type BatchConflictError struct {
	ConflictingStart time.Time
}

func (e *BatchConflictError) Error() string {
	return fmt.Sprintf("batch instance starting at %s conflicts with an existing slot", e.ConflictingStart.Format(time.RFC3339))
}

// SchedulingRepository is the transactional unit of the scheduling core.
// Every method runs its mutations inside one MongoDB session transaction:
// either all writes land, or none do.
type SchedulingRepository interface {
	// BookAppointmentTx inserts the appointment and flips its slot from
	// available to booked, conditional on the version the caller observed.
	BookAppointmentTx(ctx context.Context, slotID string, expectedVersion int, appt *models.Appointment) error

	// CancelAppointmentTx marks a confirmed appointment cancelled and
	// releases its slot.
	CancelAppointmentTx(ctx context.Context, appointmentID, slotID string) error

	// RescheduleAppointmentTx vacates the old slot, books the new one,
	// retires the old appointment as rescheduled and inserts its successor.
	RescheduleAppointmentTx(ctx context.Context, oldAppointmentID, oldSlotID, newSlotID string, newSlotVersion int, newAppt *models.Appointment) error

	// InsertSlotBatchTx re-validates every staged slot against the live
	// collection inside the transaction, then inserts them all.
	InsertSlotBatchTx(ctx context.Context, slots []models.Slot) error
}

type mongoSchedulingRepo struct {
	client          *mongo.Client
	slotColl        *mongo.Collection
	appointmentColl *mongo.Collection
}

// NewMongoSchedulingRepo constructs a new MongoDB SchedulingRepository.
func NewMongoSchedulingRepo() SchedulingRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoSchedulingRepo{
		client:          database.MongoClient,
		slotColl:        db.Collection("slots"),
		appointmentColl: db.Collection("appointments"),
	}
}
