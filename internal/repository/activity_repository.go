package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"examprep-service/internal/models"
)

// ActivityRepository keeps one document per user holding the history of
// completed quizzes, appended at finalization.
type ActivityRepository struct {
	Col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{Col: db.Collection("activity")}
}

func (r *ActivityRepository) Append(ctx context.Context, userID string, entry models.ActivityEntry) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"quiz_history": entry}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ActivityRepository) History(ctx context.Context, userID string) ([]models.ActivityEntry, error) {
	var doc struct {
		QuizHistory []models.ActivityEntry `bson:"quiz_history"`
	}
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.QuizHistory, nil
}
