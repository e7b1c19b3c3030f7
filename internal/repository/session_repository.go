package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"examprep-service/internal/models"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.QuizSession) error {
	session.Version = 1
	res, err := r.Col.InsertOne(ctx, session)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.QuizSession, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrSessionNotFound
	}
	var session models.QuizSession
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save persists the session only if the stored version still matches
// expectedVersion, so concurrent writers conflict instead of silently
// overwriting each other. The engine loaded the session moments earlier, so
// a missing match means another writer got there first.
func (r *SessionRepository) Save(ctx context.Context, session *models.QuizSession, expectedVersion int64) error {
	objID, err := primitive.ObjectIDFromHex(session.ID)
	if err != nil {
		return models.ErrSessionNotFound
	}

	next := expectedVersion + 1
	update := bson.M{"$set": bson.M{
		"current_tier":           session.CurrentTier,
		"history":                session.History,
		"score":                  session.Score,
		"accuracy":               session.Accuracy,
		"total_duration_seconds": session.TotalDurationSeconds,
		"completed":              session.Completed,
		"completed_at":           session.CompletedAt,
		"version":                next,
	}}

	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": objID, "version": expectedVersion}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrVersionConflict
	}
	session.Version = next
	return nil
}

// AggregateLeaderboard groups completed sessions per user, mirroring the
// leaderboard view: total and best score, average accuracy, quiz count.
func (r *SessionRepository) AggregateLeaderboard(ctx context.Context, categoryID string, since time.Time, limit int) ([]models.LeaderboardEntry, error) {
	match := bson.M{"completed": true}
	if categoryID != "" {
		match["category_id"] = categoryID
	}
	if !since.IsZero() {
		match["completed_at"] = bson.M{"$gte": since}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$user_id",
			"total_score":   bson.M{"$sum": "$score"},
			"avg_accuracy":  bson.M{"$avg": "$accuracy"},
			"total_quizzes": bson.M{"$sum": 1},
			"best_score":    bson.M{"$max": "$score"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_score", Value: -1}, {Key: "avg_accuracy", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.LeaderboardEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindActiveByUser lists a user's unfinished sessions, most recent first.
func (r *SessionRepository) FindActiveByUser(ctx context.Context, userID string) ([]models.QuizSession, error) {
	opts := options.Find().SetSort(bson.M{"started_at": -1})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "completed": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var sessions []models.QuizSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
