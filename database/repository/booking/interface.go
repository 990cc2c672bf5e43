package bookingRepo

import (
	"context"

	"labreserve/config"
	"labreserve/database"
	"labreserve/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository interface {
	CreateMany(ctx context.Context, records []models.BookingRecord) ([]string, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.BookingRecord, error)
	GetByToolAndDates(ctx context.Context, toolID int, dates []string) ([]models.BookingRecord, error)
	GetByDates(ctx context.Context, dates []string) ([]models.BookingRecord, error)
	GetByUser(ctx context.Context, userID string) ([]models.BookingRecord, error)
	UpdateOne(ctx context.Context, id string, update models.BookingRecord) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a new BookingRepository instance using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
