package models

import "time"

// ActivityEntry is appended to a user's activity record when a session
// completes; dashboards and history views read it back.
type ActivityEntry struct {
	SessionID       string    `bson:"session_id" json:"session_id"`
	Score           int       `bson:"score" json:"score"`
	Accuracy        float64   `bson:"accuracy" json:"accuracy"`
	DurationSeconds int       `bson:"duration_seconds" json:"duration_seconds"`
	CompletedAt     time.Time `bson:"completed_at" json:"completed_at"`
}
