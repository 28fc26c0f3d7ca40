// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookify/models"
)

func (r *mongoSlotRepo) Create(ctx context.Context, slot *models.Slot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "deleted": false}
	var slot models.Slot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// MarkBooked flips a slot from available to booked, conditional on the
// version the caller observed. mongo.ErrNoDocuments signals that a concurrent
// writer got there first.
func (r *mongoSlotRepo) MarkBooked(ctx context.Context, slotID string, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

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
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAvailable flips a slot back to available regardless of its current
// status, so cancel and reschedule paths can call it idempotently.
func (r *mongoSlotRepo) MarkAvailable(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "deleted": false}
	update := bson.M{
		"$set": bson.M{
			"status":    models.SlotStatusAvailable,
			"updatedAt": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update)
	return err
}

// SoftDelete marks a slot deleted, conditional on it not being booked.
// mongo.ErrNoDocuments signals the slot was absent, already deleted, or
// got booked since the caller last looked.
func (r *mongoSlotRepo) SoftDelete(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      slotID,
		"deleted": false,
		"status":  bson.M{"$ne": models.SlotStatusBooked},
	}
	update := bson.M{
		"$set": bson.M{
			"deleted":   true,
			"updatedAt": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
