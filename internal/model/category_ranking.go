package model

import "sort"

// CategoryScore is the aggregated learned-pattern score of one category.
type CategoryScore struct {
	Category        string
	MatchedPatterns []string
	Score           float64
}

// CategoryScores is a slice of CategoryScore that supports sorting and utility methods.
type CategoryScores []CategoryScore

// Len implements sort.Interface.
func (s CategoryScores) Len() int {
	return len(s)
}

// Less implements sort.Interface - higher scores come first.
func (s CategoryScores) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}
	// Equal scores fall back to name for deterministic ordering
	return s[i].Category < s[j].Category
}

// Swap implements sort.Interface.
func (s CategoryScores) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Sort sorts the scores in descending order.
func (s CategoryScores) Sort() {
	sort.Stable(s)
}

// Top returns the highest-scoring category, or nil if empty.
func (s CategoryScores) Top() *CategoryScore {
	if len(s) == 0 {
		return nil
	}
	s.Sort()
	return &s[0]
}

// TopN returns the N highest-scoring categories.
func (s CategoryScores) TopN(n int) CategoryScores {
	if n <= 0 {
		return CategoryScores{}
	}

	s.Sort()

	if n > len(s) {
		n = len(s)
	}

	result := make(CategoryScores, n)
	copy(result, s[:n])
	return result
}

// Total sums the scores of all categories.
func (s CategoryScores) Total() float64 {
	var total float64
	for _, score := range s {
		total += score.Score
	}
	return total
}
