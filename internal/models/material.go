package models

import "time"

// Material processing states, in pipeline order.
const (
	MaterialUploaded            = "uploaded"
	MaterialExtracting          = "extracting"
	MaterialExtractingConcepts  = "extracting_concepts"
	MaterialGeneratingQuestions = "generating_questions"
	MaterialReady               = "ready"
	MaterialError               = "error"
)

// Material is one uploaded source document and its processing status.
type Material struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	UserID   string `bson:"user_id" json:"user_id"`
	Filename string `bson:"filename" json:"filename"`

	Status       string `bson:"status" json:"status"`
	ErrorMessage string `bson:"error_message,omitempty" json:"error_message,omitempty"`

	TotalPages           int `bson:"total_pages" json:"total_pages"`
	EstimatedTimeMinutes int `bson:"estimated_time_minutes" json:"estimated_time_minutes"`

	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}
