package toolRepo

import (
	"context"

	"labreserve/config"
	"labreserve/database"
	"labreserve/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ToolRepository interface {
	GetAll(ctx context.Context) ([]models.Tool, error)
	GetByID(ctx context.Context, id int) (*models.Tool, error)
	SetStatus(ctx context.Context, id int, status string) error
}

type mongoToolRepo struct {
	coll *mongo.Collection
}

// NewMongoToolRepo returns a new ToolRepository instance using MongoDB.
func NewMongoToolRepo() ToolRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoToolRepo{
		coll: db.Collection("tools"),
	}
}
