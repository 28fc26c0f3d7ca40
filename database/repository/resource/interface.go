// File: database/repository/resource/interface.go
package resourceRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookify/config"
	"bookify/database"
	"bookify/models"
)

type ResourceRepository interface {
	GetByID(ctx context.Context, resourceID string) (*models.Resource, error)
	IncrementUsage(ctx context.Context, resourceID string) error
	HasPendingMaintenanceIn(ctx context.Context, resourceID string, from, to time.Time) (bool, error)
	EnsureIndexes() error
}

type mongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs a new MongoDB ResourceRepository.
func NewMongoResourceRepo() ResourceRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoResourceRepo{
		coll: db.Collection("resources"),
	}
}
