package service

import (
	"context"

	"examprep-service/internal/models"
	"examprep-service/internal/repository"
	"examprep-service/internal/scoring"
)

type ResultService struct {
	Repo     *repository.ResultRepository
	Activity *repository.ActivityRepository
}

func NewResultService(repo *repository.ResultRepository, activity *repository.ActivityRepository) *ResultService {
	return &ResultService{Repo: repo, Activity: activity}
}

func (s *ResultService) GetBySession(ctx context.Context, sessionID string) (*models.QuizResult, error) {
	return s.Repo.FindBySession(ctx, sessionID)
}

func (s *ResultService) GetByUser(ctx context.Context, userID string, limit int64) ([]models.QuizResult, error) {
	return s.Repo.FindByUser(ctx, userID, limit)
}

// DashboardStats summarizes a user's quiz record for the dashboard view.
type DashboardStats struct {
	TotalQuizzes int `json:"total_quizzes"`
	BestScore    int `json:"best_score"`
	AvgAccuracy  int `json:"avg_accuracy"`
}

// Dashboard computes the per-user totals: quiz count, best accuracy-based
// score and average accuracy across all results.
func (s *ResultService) Dashboard(ctx context.Context, userID string) (*DashboardStats, error) {
	results, err := s.Repo.FindByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalQuizzes: len(results)}
	if len(results) == 0 {
		return stats, nil
	}

	sum := 0
	for _, r := range results {
		if r.TotalQuestions == 0 {
			continue
		}
		pct := scoring.RoundedAccuracy(r.CorrectAnswers, r.TotalQuestions)
		if pct > stats.BestScore {
			stats.BestScore = pct
		}
		sum += pct
	}
	stats.AvgAccuracy = sum / len(results)
	return stats, nil
}

// RecentActivity returns the latest completion entries from the user's
// activity record.
func (s *ResultService) RecentActivity(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error) {
	history, err := s.Activity.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	// Newest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}
