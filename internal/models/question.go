package models

import "time"

type Question struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Text             string    `bson:"question" json:"question"`
	Options          []string  `bson:"options" json:"options"`
	CorrectAnswer    string    `bson:"correct_answer" json:"correct_answer,omitempty"`
	Difficulty       string    `bson:"difficulty" json:"difficulty"`
	CategoryID       string    `bson:"category_id" json:"category_id"`
	SubjectID        string    `bson:"subject_id" json:"subject_id"`
	TimeLimitSeconds int       `bson:"time_limit_seconds" json:"time_limit_seconds"`
	CreatedBy        string    `bson:"created_by" json:"created_by,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// HasOption reports whether answer matches one of the question's options.
func (q *Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// Sanitized returns a copy of the question with the correct answer withheld.
func (q Question) Sanitized() Question {
	q.CorrectAnswer = ""
	return q
}
