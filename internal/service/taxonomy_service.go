package service

import (
	"context"
	"fmt"

	"examprep-service/internal/models"
	"examprep-service/internal/repository"
)

type TaxonomyService struct {
	Categories *repository.CategoryRepository
	Subjects   *repository.SubjectRepository
}

func NewTaxonomyService(categories *repository.CategoryRepository, subjects *repository.SubjectRepository) *TaxonomyService {
	return &TaxonomyService{Categories: categories, Subjects: subjects}
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Categories.FindAll(ctx)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return s.Categories.Create(ctx, category)
}

func (s *TaxonomyService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.Subjects.FindAll(ctx)
}

func (s *TaxonomyService) ListSubjectsByCategory(ctx context.Context, categoryID string) ([]models.Subject, error) {
	if _, err := s.Categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.Subjects.FindByCategory(ctx, categoryID)
}

func (s *TaxonomyService) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if subject.Name == "" || subject.CategoryID == "" {
		return fmt.Errorf("subject name and category are required")
	}
	if _, err := s.Categories.FindByID(ctx, subject.CategoryID); err != nil {
		return err
	}
	return s.Subjects.Create(ctx, subject)
}
