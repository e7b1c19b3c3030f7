package models

import "time"

// MixedSubject marks a session that draws questions from every subject in
// its category instead of a single one.
const MixedSubject = "mixed"

type AnswerRecord struct {
	QuestionID       string    `bson:"question_id" json:"question_id"`
	UserAnswer       string    `bson:"user_answer" json:"user_answer"`
	IsCorrect        bool      `bson:"is_correct" json:"is_correct"`
	TimeSpentSeconds int       `bson:"time_spent_seconds" json:"time_spent_seconds"`
	Tier             string    `bson:"tier" json:"tier"`
	AnsweredAt       time.Time `bson:"answered_at" json:"answered_at"`
}

// QuizSession is one test attempt. History is append-only, the tier never
// decreases and Completed flips to true exactly once; Version backs the
// optimistic save in the session store.
type QuizSession struct {
	ID                   string         `bson:"_id,omitempty" json:"id"`
	UserID               string         `bson:"user_id" json:"user_id"`
	CategoryID           string         `bson:"category_id" json:"category_id"`
	Subject              string         `bson:"subject" json:"subject"`
	SubjectIDs           []string       `bson:"subject_ids" json:"subject_ids"`
	CurrentTier          string         `bson:"current_tier" json:"current_tier"`
	History              []AnswerRecord `bson:"history" json:"history"`
	Score                int            `bson:"score" json:"score"`
	Accuracy             float64        `bson:"accuracy" json:"accuracy"`
	TotalDurationSeconds int            `bson:"total_duration_seconds" json:"total_duration_seconds"`
	Completed            bool           `bson:"completed" json:"completed"`
	StartedAt            time.Time      `bson:"started_at" json:"started_at"`
	CompletedAt          *time.Time     `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Version              int64          `bson:"version" json:"-"`
}

// HasAnswered reports whether questionID already appears in the history.
func (s *QuizSession) HasAnswered(questionID string) bool {
	for _, rec := range s.History {
		if rec.QuestionID == questionID {
			return true
		}
	}
	return false
}

// AnsweredIDs returns the ids of every question served so far.
func (s *QuizSession) AnsweredIDs() []string {
	ids := make([]string, 0, len(s.History))
	for _, rec := range s.History {
		ids = append(ids, rec.QuestionID)
	}
	return ids
}

// CorrectCount returns the number of correct answers in the history.
func (s *QuizSession) CorrectCount() int {
	n := 0
	for _, rec := range s.History {
		if rec.IsCorrect {
			n++
		}
	}
	return n
}
