// File: database/repository/resource/crud.go
package resourceRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookify/models"
)

func (r *mongoResourceRepo) GetByID(ctx context.Context, resourceID string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": resourceID, "deleted": false}
	var resource models.Resource
	if err := r.coll.FindOne(ctx, filter).Decode(&resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// IncrementUsage bumps the usage counter after a committed booking. Callers
// treat failures as best-effort: the booking outcome never depends on it.
func (r *mongoResourceRepo) IncrementUsage(ctx context.Context, resourceID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": resourceID, "deleted": false}
	update := bson.M{
		"$inc": bson.M{"usageCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update)
	return err
}

// HasPendingMaintenanceIn reports whether the resource carries a pending
// maintenance window scheduled inside [from, to].
func (r *mongoResourceRepo) HasPendingMaintenanceIn(ctx context.Context, resourceID string, from, to time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      resourceID,
		"deleted": false,
		"maintenance": bson.M{
			"$elemMatch": bson.M{
				"status":      models.MaintenanceStatusPending,
				"scheduledAt": bson.M{"$gte": from, "$lte": to},
			},
		},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check maintenance windows: %w", err)
	}
	return count > 0, nil
}

// EnsureIndexes creates the necessary indexes on the resources collection.
func (r *mongoResourceRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "maintenance.status", Value: 1}, {Key: "maintenance.scheduledAt", Value: 1}},
			Options: options.Index().SetName("maintenance_pending_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}
	return nil
}
