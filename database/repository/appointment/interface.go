// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"bookify/config"
	"bookify/database"
	"bookify/models"
)

type AppointmentRepository interface {
	GetByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
	GetConfirmedForSlot(ctx context.Context, slotID string) (*models.Appointment, error)
	EnsureIndexes() error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
