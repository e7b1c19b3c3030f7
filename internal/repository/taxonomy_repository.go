package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"examprep-service/internal/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository struct {
	Col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{Col: db.Collection("categories")}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = primitive.NewObjectID().Hex()
	}
	category.CreatedAt = time.Now()
	_, err := r.Col.InsertOne(ctx, category)
	return err
}

type SubjectRepository struct {
	Col *mongo.Collection
}

func NewSubjectRepository(db *mongo.Database) *SubjectRepository {
	return &SubjectRepository{Col: db.Collection("subjects")}
}

func (r *SubjectRepository) FindAll(ctx context.Context) ([]models.Subject, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var subjects []models.Subject
	if err := cur.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *SubjectRepository) FindByCategory(ctx context.Context, categoryID string) ([]models.Subject, error) {
	cur, err := r.Col.Find(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var subjects []models.Subject
	if err := cur.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = primitive.NewObjectID().Hex()
	}
	subject.CreatedAt = time.Now()
	_, err := r.Col.InsertOne(ctx, subject)
	return err
}
