package model

import "time"

// Quiz is a stored question set, loaded at session-start time.
type Quiz struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Title     string     `json:"title" bson:"title"`
	Category  string     `json:"category,omitempty" bson:"category,omitempty"`
	Questions []Question `json:"questions" bson:"questions"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}
