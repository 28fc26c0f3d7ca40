// File: database/repository/scheduling/transaction.go
package schedulingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookify/models"
)

// runInTransaction wraps txnFn in a session transaction, aborting on any error.
func (repo *mongoSchedulingRepo) runInTransaction(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	sess, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// markBooked performs the conditional available→booked flip. A zero match
// means the slot was taken, deleted, or moved past the observed version.
func (repo *mongoSchedulingRepo) markBooked(sc mongo.SessionContext, slotID string, expectedVersion int) error {
	filter := bson.M{
		"id":      slotID,
		"status":  models.SlotStatusAvailable,
		"deleted": false,
	}
	if expectedVersion > 0 {
		filter["version"] = expectedVersion
	}
	update := bson.M{
		"$set": bson.M{
			"status":    models.SlotStatusBooked,
			"updatedAt": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := repo.slotColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("slot status update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (repo *mongoSchedulingRepo) markAvailable(sc mongo.SessionContext, slotID string) error {
	filter := bson.M{"id": slotID, "deleted": false}
	update := bson.M{
		"$set": bson.M{
			"status":    models.SlotStatusAvailable,
			"updatedAt": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	if _, err := repo.slotColl.UpdateOne(sc, filter, update); err != nil {
		return fmt.Errorf("slot release failed: %w", err)
	}
	return nil
}

// retireAppointment moves a confirmed appointment to a terminal status.
func (repo *mongoSchedulingRepo) retireAppointment(sc mongo.SessionContext, appointmentID, status string) error {
	filter := bson.M{
		"id":      appointmentID,
		"status":  models.AppointmentStatusConfirmed,
		"deleted": false,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}
	res, err := repo.appointmentColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("appointment status update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAppointmentNotLive
	}
	return nil
}

func (repo *mongoSchedulingRepo) BookAppointmentTx(ctx context.Context, slotID string, expectedVersion int, appt *models.Appointment) error {
	return repo.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.markBooked(sc, slotID, expectedVersion); err != nil {
			return err
		}
		if _, err := repo.appointmentColl.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	})
}

func (repo *mongoSchedulingRepo) CancelAppointmentTx(ctx context.Context, appointmentID, slotID string) error {
	return repo.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.retireAppointment(sc, appointmentID, models.AppointmentStatusCancelled); err != nil {
			return err
		}
		return repo.markAvailable(sc, slotID)
	})
}

func (repo *mongoSchedulingRepo) RescheduleAppointmentTx(ctx context.Context, oldAppointmentID, oldSlotID, newSlotID string, newSlotVersion int, newAppt *models.Appointment) error {
	return repo.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.markBooked(sc, newSlotID, newSlotVersion); err != nil {
			return err
		}
		if err := repo.markAvailable(sc, oldSlotID); err != nil {
			return err
		}
		if err := repo.retireAppointment(sc, oldAppointmentID, models.AppointmentStatusRescheduled); err != nil {
			return err
		}
		if _, err := repo.appointmentColl.InsertOne(sc, newAppt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	})
}

func (repo *mongoSchedulingRepo) InsertSlotBatchTx(ctx context.Context, slots []models.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return repo.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		// Re-check every staged instance against the live collection inside
		// the transaction, so a writer that slipped in between validation and
		// commit aborts the whole batch.
		for _, slot := range slots {
			filter := bson.M{
				"deleted":   false,
				"startTime": bson.M{"$lt": slot.EndTime},
				"endTime":   bson.M{"$gt": slot.StartTime},
			}
			axes := bson.A{bson.M{"staffId": slot.StaffID}}
			if slot.ResourceID != "" {
				axes = append(axes, bson.M{"resourceId": slot.ResourceID})
			}
			filter["$or"] = axes

			count, err := repo.slotColl.CountDocuments(sc, filter)
			if err != nil {
				return fmt.Errorf("batch overlap re-check failed: %w", err)
			}
			if count > 0 {
				return &BatchConflictError{ConflictingStart: slot.StartTime}
			}
		}

		docs := make([]interface{}, len(slots))
		for i, slot := range slots {
			docs[i] = slot
		}
		if _, err := repo.slotColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert slot batch failed: %w", err)
		}
		return nil
	})
}
