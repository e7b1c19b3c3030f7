package models

import "time"

type ResultAnswer struct {
	QuestionID       string `bson:"question_id" json:"question_id"`
	SelectedAnswer   string `bson:"selected_answer" json:"selected_answer"`
	IsCorrect        bool   `bson:"is_correct" json:"is_correct"`
	TimeSpentSeconds int    `bson:"time_spent_seconds" json:"time_spent_seconds"`
}

// QuizResult is the immutable scored snapshot of a completed session.
type QuizResult struct {
	ID               string         `bson:"_id,omitempty" json:"id"`
	SessionID        string         `bson:"session_id" json:"session_id"`
	UserID           string         `bson:"user_id" json:"user_id"`
	Score            int            `bson:"score" json:"score"`
	TotalQuestions   int            `bson:"total_questions" json:"total_questions"`
	CorrectAnswers   int            `bson:"correct_answers" json:"correct_answers"`
	Accuracy         int            `bson:"accuracy" json:"accuracy"`
	TimeTakenSeconds int            `bson:"time_taken_seconds" json:"time_taken_seconds"`
	Answers          []ResultAnswer `bson:"answers" json:"answers"`
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
}

// LeaderboardEntry is one row of the aggregated scoreboard.
type LeaderboardEntry struct {
	UserID       string  `bson:"_id" json:"user_id"`
	TotalScore   int     `bson:"total_score" json:"total_score"`
	AvgAccuracy  float64 `bson:"avg_accuracy" json:"avg_accuracy"`
	TotalQuizzes int     `bson:"total_quizzes" json:"total_quizzes"`
	BestScore    int     `bson:"best_score" json:"best_score"`
}
