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

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

// QuestionFilter narrows admin/list queries.
type QuestionFilter struct {
	CategoryID string
	SubjectID  string
	Difficulty string
	Limit      int64
}

func scopeFilter(subjectIDs []string) any {
	if len(subjectIDs) == 1 {
		return subjectIDs[0]
	}
	return bson.M{"$in": subjectIDs}
}

// FindOne returns a single unseen question at the given difficulty within
// the subject scope, or nil when the scope is exhausted.
func (r *QuestionRepository) FindOne(ctx context.Context, difficulty string, subjectIDs, excludeIDs []string) (*models.Question, error) {
	filter := bson.M{
		"difficulty": difficulty,
		"subject_id": scopeFilter(subjectIDs),
	}
	if len(excludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludeIDs}
	}

	var question models.Question
	err := r.Col.FindOne(ctx, filter).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Sample draws n random questions from the subject scope.
func (r *QuestionRepository) Sample(ctx context.Context, subjectIDs []string, n int) ([]models.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"subject_id": scopeFilter(subjectIDs)}}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) CountByScope(ctx context.Context, subjectIDs []string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"subject_id": scopeFilter(subjectIDs)})
}

func (r *QuestionRepository) List(ctx context.Context, filter QuestionFilter) ([]models.Question, error) {
	query := bson.M{}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.SubjectID != "" {
		query["subject_id"] = filter.SubjectID
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cur, err := r.Col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	question.CreatedAt = time.Now()
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) CreateMany(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	docs := make([]any, 0, len(questions))
	now := time.Now()
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = primitive.NewObjectID().Hex()
		}
		questions[i].CreatedAt = now
		docs = append(docs, questions[i])
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}
