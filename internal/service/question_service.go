package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"examprep-service/internal/models"
	"examprep-service/internal/repository"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

// List returns questions matching the filter. Non-admin callers get a capped
// list with correct answers withheld.
func (s *QuestionService) List(ctx context.Context, filter repository.QuestionFilter, admin bool) ([]models.Question, error) {
	if !admin && (filter.Limit <= 0 || filter.Limit > 10) {
		filter.Limit = 10
	}
	questions, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if !admin {
		for i := range questions {
			questions[i] = questions[i].Sanitized()
		}
	}
	return questions, nil
}

func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuestionService) Create(ctx context.Context, question *models.Question) error {
	if !question.HasOption(question.CorrectAnswer) {
		return fmt.Errorf("correct answer must match one of the options")
	}
	if question.TimeLimitSeconds == 0 {
		question.TimeLimitSeconds = 60
	}
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) Update(ctx context.Context, id string, update bson.M) error {
	return s.Repo.Update(ctx, id, update)
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// ImportSummary reports the outcome of a CSV bulk upload.
type ImportSummary struct {
	Inserted int      `json:"inserted"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportCSV bulk-loads questions from a CSV stream with the header columns
// question, option1..option4, correctAnswer, difficulty, category, subject.
// Rows whose correct answer is not among the options are reported and
// skipped; valid rows are inserted in one batch.
func (s *QuestionService) ImportCSV(ctx context.Context, r io.Reader, createdBy string) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"question", "correctAnswer", "difficulty", "category", "subject"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	summary := &ImportSummary{}
	var questions []models.Question
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		var options []string
		for _, name := range []string{"option1", "option2", "option3", "option4"} {
			if opt := field(row, name); opt != "" {
				options = append(options, opt)
			}
		}
		question := models.Question{
			Text:          field(row, "question"),
			Options:       options,
			CorrectAnswer: field(row, "correctAnswer"),
			Difficulty:    field(row, "difficulty"),
			CategoryID:    field(row, "category"),
			SubjectID:     field(row, "subject"),
			CreatedBy:     createdBy,
		}
		if limit, err := strconv.Atoi(field(row, "timeLimit")); err == nil && limit > 0 {
			question.TimeLimitSeconds = limit
		} else {
			question.TimeLimitSeconds = 60
		}

		if !question.HasOption(question.CorrectAnswer) {
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: correct answer doesn't match options", line))
			continue
		}
		questions = append(questions, question)
	}

	if err := s.Repo.CreateMany(ctx, questions); err != nil {
		return nil, fmt.Errorf("insert questions: %w", err)
	}
	summary.Inserted = len(questions)
	return summary, nil
}
