package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AlexObbs/shopp/models"
)

// EmailLogRepository appends email dispatch log entries. The log is
// write-only from this service's point of view.
type EmailLogRepository interface {
	Append(ctx context.Context, entry *models.EmailNotification) error
}

type mongoEmailLogRepo struct {
	coll *mongo.Collection
}

// NewMongoEmailLogRepo creates an EmailLogRepository backed by the
// "email_notifications" collection.
func NewMongoEmailLogRepo(db *mongo.Database) EmailLogRepository {
	return &mongoEmailLogRepo{coll: db.Collection("email_notifications")}
}

func (r *mongoEmailLogRepo) Append(ctx context.Context, entry *models.EmailNotification) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}
