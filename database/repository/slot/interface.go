// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookify/config"
	"bookify/database"
	"bookify/models"
)

// OverlapQuery describes an interval scan over the active slots of a staff
// member and/or a resource. At least one of StaffID/ResourceID must be set;
// a match on either axis counts as an overlap.
type OverlapQuery struct {
	Start         time.Time
	End           time.Time
	StaffID       string
	ResourceID    string
	ExcludeSlotID string
}

type SlotRepository interface {
	Create(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]models.Slot, error)
	MarkBooked(ctx context.Context, slotID string, expectedVersion int) error
	MarkAvailable(ctx context.Context, slotID string) error
	SoftDelete(ctx context.Context, slotID string) error
	SumBookedDurationForDay(ctx context.Context, staffID string, dayStart, dayEnd time.Time) (time.Duration, error)
	FindAlternatives(ctx context.Context, staffID, resourceID, excludeSlotID string, notBefore time.Time, limit int) ([]models.Slot, error)
	ListByStaffAndRange(ctx context.Context, staffID string, from, to time.Time) ([]models.Slot, error)
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
