package model

import "time"

// Initial values and reinforcement step for learned patterns.
const (
	InitialPatternWeight = 1.0
	PatternWeightStep    = 0.1
)

// Pattern is a learned association between a keyword and a category.
// (CategoryID, Keyword) is unique; repeated evidence reinforces the same row.
type Pattern struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Keyword     string    `json:"keyword"`
	Weight      float64   `json:"weight"`
	ID          int       `json:"id"`
	CategoryID  int       `json:"category_id"`
	Occurrences int       `json:"occurrences"`
}

// CategoryPatterns is a category together with its learned patterns, heaviest first.
type CategoryPatterns struct {
	Patterns []Pattern
	Category Category
}
