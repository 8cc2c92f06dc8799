package models

import "time"

// Concept is one unit of testable knowledge extracted from a material.
// Read-only after generation.
type Concept struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	MaterialID string    `bson:"material_id" json:"material_id"`
	Name       string    `bson:"name" json:"name"`
	FullName   string    `bson:"full_name" json:"full_name"`
	Definition string    `bson:"definition" json:"definition"`
	Complexity int       `bson:"complexity" json:"complexity"`
	Domain     string    `bson:"domain" json:"domain"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
