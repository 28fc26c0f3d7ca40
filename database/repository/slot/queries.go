// File: database/repository/slot/queries.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookify/models"
)

func (r *mongoSlotRepo) FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Half-open interval intersection: existing.start < q.End AND existing.end > q.Start.
	filter := bson.M{
		"deleted":   false,
		"startTime": bson.M{"$lt": q.End},
		"endTime":   bson.M{"$gt": q.Start},
	}

	axes := bson.A{}
	if q.StaffID != "" {
		axes = append(axes, bson.M{"staffId": q.StaffID})
	}
	if q.ResourceID != "" {
		axes = append(axes, bson.M{"resourceId": q.ResourceID})
	}
	if len(axes) == 0 {
		return nil, fmt.Errorf("overlap query requires a staff or resource axis")
	}
	filter["$or"] = axes

	if q.ExcludeSlotID != "" {
		filter["id"] = bson.M{"$ne": q.ExcludeSlotID}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for overlapping slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

// SumBookedDurationForDay aggregates the committed booked time of a staff
// member within [dayStart, dayEnd).
func (r *mongoSlotRepo) SumBookedDurationForDay(ctx context.Context, staffID string, dayStart, dayEnd time.Time) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{
			"staffId":   staffID,
			"status":    models.SlotStatusBooked,
			"deleted":   false,
			"startTime": bson.M{"$gte": dayStart, "$lt": dayEnd},
		}},
		{"$project": bson.M{
			"durationMs": bson.M{"$subtract": bson.A{"$endTime", "$startTime"}},
		}},
		{"$group": bson.M{
			"_id":     nil,
			"totalMs": bson.M{"$sum": "$durationMs"},
		}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate booked duration: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		TotalMs int64 `bson:"totalMs"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("decode error: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return time.Duration(result[0].TotalMs) * time.Millisecond, nil
}

func (r *mongoSlotRepo) FindAlternatives(ctx context.Context, staffID, resourceID, excludeSlotID string, notBefore time.Time, limit int) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	axes := bson.A{bson.M{"staffId": staffID}}
	if resourceID != "" {
		axes = append(axes, bson.M{"resourceId": resourceID})
	}

	filter := bson.M{
		"status":    models.SlotStatusAvailable,
		"deleted":   false,
		"id":        bson.M{"$ne": excludeSlotID},
		"startTime": bson.M{"$gte": notBefore},
		"$or":       axes,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startTime", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alternative slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) ListByStaffAndRange(ctx context.Context, staffID string, from, to time.Time) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"staffId":   staffID,
		"deleted":   false,
		"startTime": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}
