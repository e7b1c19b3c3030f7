package models

import "time"

type Category struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type Subject struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description,omitempty"`
	CategoryID  string    `bson:"category_id" json:"category_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
