// Package scoring turns a finished session or a batch answer set into an
// immutable QuizResult. All functions are pure apart from timestamping.
package scoring

import (
	"math"
	"time"

	"examprep-service/internal/models"
)

// Accuracy returns the unrounded percentage of correct answers. Callers must
// guard total > 0.
func Accuracy(correct, total int) float64 {
	return float64(correct) / float64(total) * 100
}

// RoundedAccuracy returns the percentage rounded to the nearest integer, as
// stored on result records.
func RoundedAccuracy(correct, total int) int {
	return int(math.Round(Accuracy(correct, total)))
}

// Compile builds the result snapshot for an adaptive session from its answer
// history. An empty history cannot produce a result.
func Compile(session *models.QuizSession) (*models.QuizResult, error) {
	if len(session.History) == 0 {
		return nil, models.ErrInvalidResult
	}

	answers := make([]models.ResultAnswer, 0, len(session.History))
	correct := 0
	for _, rec := range session.History {
		if rec.IsCorrect {
			correct++
		}
		answers = append(answers, models.ResultAnswer{
			QuestionID:       rec.QuestionID,
			SelectedAnswer:   rec.UserAnswer,
			IsCorrect:        rec.IsCorrect,
			TimeSpentSeconds: rec.TimeSpentSeconds,
		})
	}

	return &models.QuizResult{
		SessionID:        session.ID,
		UserID:           session.UserID,
		Score:            session.Score,
		TotalQuestions:   len(session.History),
		CorrectAnswers:   correct,
		Accuracy:         RoundedAccuracy(correct, len(session.History)),
		TimeTakenSeconds: session.TotalDurationSeconds,
		Answers:          answers,
		CreatedAt:        time.Now(),
	}, nil
}

// CompileBatch scores a fixed-length quiz in one pass: every question is
// checked against the submitted answers and the elapsed time is derived from
// the remaining clock, floored at zero.
func CompileBatch(session *models.QuizSession, questions []models.Question, answers map[string]string, budgetSeconds, timeLeftSeconds int) (*models.QuizResult, error) {
	if len(questions) == 0 {
		return nil, models.ErrInvalidResult
	}

	resultAnswers := make([]models.ResultAnswer, 0, len(questions))
	correct := 0
	for _, q := range questions {
		selected := answers[q.ID]
		isCorrect := selected != "" && selected == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		resultAnswers = append(resultAnswers, models.ResultAnswer{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
		})
	}

	timeTaken := budgetSeconds - timeLeftSeconds
	if timeTaken < 0 {
		timeTaken = 0
	}

	return &models.QuizResult{
		SessionID:        session.ID,
		UserID:           session.UserID,
		Score:            correct,
		TotalQuestions:   len(questions),
		CorrectAnswers:   correct,
		Accuracy:         RoundedAccuracy(correct, len(questions)),
		TimeTakenSeconds: timeTaken,
		Answers:          resultAnswers,
		CreatedAt:        time.Now(),
	}, nil
}
