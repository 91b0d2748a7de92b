package model

// Source records which tier of the fallback chain produced a category.
type Source string

// Categorization sources.
const (
	SourceLearned Source = "learned"
	SourceRule    Source = "rule"
	SourceRemote  Source = "remote"
)

// Prediction is the learned-pattern categorizer's answer for one transaction.
type Prediction struct {
	Category        string
	MatchedPatterns []string
	Confidence      float64
	IsPrediction    bool
}

// NoPrediction is returned when learned data is missing or inconclusive.
func NoPrediction() Prediction {
	return Prediction{Category: CategoryOther}
}

// Categorization is the final category chosen for a transaction.
type Categorization struct {
	Category   string
	Source     Source
	Confidence float64
}
