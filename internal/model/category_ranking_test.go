package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryScores_Sort(t *testing.T) {
	scores := CategoryScores{
		{Category: "Shopping", Score: 0.7},
		{Category: "Food & Dining", Score: 2.4},
		{Category: "Transport", Score: 0.7},
		{Category: "Health", Score: 0},
	}

	scores.Sort()

	got := make([]string, len(scores))
	for i, s := range scores {
		got[i] = s.Category
	}
	assert.Equal(t, []string{"Food & Dining", "Shopping", "Transport", "Health"}, got)
}

func TestCategoryScores_Top(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, CategoryScores{}.Top())
	})

	t.Run("highest wins", func(t *testing.T) {
		top := CategoryScores{
			{Category: "Transport", Score: 1.2},
			{Category: "Trà đá", Score: 4.8},
		}.Top()
		require.NotNil(t, top)
		assert.Equal(t, "Trà đá", top.Category)
	})
}

func TestCategoryScores_TopN(t *testing.T) {
	scores := CategoryScores{
		{Category: "A", Score: 0.1},
		{Category: "B", Score: 0.3},
		{Category: "C", Score: 0.2},
		{Category: "D", Score: 0.4},
	}

	tests := []struct {
		name string
		want []string
		n    int
	}{
		{name: "zero", n: 0, want: []string{}},
		{name: "negative", n: -1, want: []string{}},
		{name: "top three", n: 3, want: []string{"D", "B", "C"}},
		{name: "more than available", n: 10, want: []string{"D", "B", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := scores.TopN(tt.n)
			got := make([]string, len(top))
			for i, s := range top {
				got[i] = s.Category
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryScores_Total(t *testing.T) {
	scores := CategoryScores{{Score: 1.5}, {Score: 0.7}, {Score: 0}}
	assert.InDelta(t, 2.2, scores.Total(), 1e-9)
}
