package pattern

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/testutil"
)

func TestMatcher_ColdStart(t *testing.T) {
	ctx := context.Background()
	txn := testutil.NewTransaction("Highlands Coffee", "", 45000)

	t.Run("no categories", func(t *testing.T) {
		pred, err := NewMatcher(newFakeStore(), nil).Classify(ctx, "u", txn)
		require.NoError(t, err)
		assert.Equal(t, model.NoPrediction(), pred)
	})

	t.Run("categories without patterns", func(t *testing.T) {
		store := newFakeStore("Food & Dining", "Transport")
		pred, err := NewMatcher(store, nil).Classify(ctx, "u", txn)
		require.NoError(t, err)
		assert.Equal(t, model.CategoryOther, pred.Category)
		assert.Zero(t, pred.Confidence)
		assert.False(t, pred.IsPrediction)
	})
}

func TestMatcher_Threshold(t *testing.T) {
	ctx := context.Background()
	txn := testutil.NewTransaction("xyzshop", "", 2_000_000)

	tests := []struct {
		name       string
		weight     float64
		wantPred   bool
		wantConfid float64
	}{
		{name: "exactly at threshold is rejected", weight: 0.5, wantPred: false},
		{name: "just above threshold is accepted", weight: 0.5000001, wantPred: true, wantConfid: 0.5000001},
		{name: "heavy pattern caps confidence", weight: 4.0, wantPred: true, wantConfid: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore().withPattern("Shopping", "xyzshop", tt.weight)
			pred, err := NewMatcher(store, nil).Classify(ctx, "u", txn)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPred, pred.IsPrediction)
			if tt.wantPred {
				assert.Equal(t, "Shopping", pred.Category)
				assert.InDelta(t, tt.wantConfid, pred.Confidence, 1e-9)
				assert.Equal(t, []string{"xyzshop"}, pred.MatchedPatterns)
			} else {
				assert.Equal(t, model.NoPrediction(), pred)
			}
		})
	}
}

func TestMatcher_ConfidenceIsShareOfTotal(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore().
		withPattern("Transport", "grab", 1.5).
		withPattern("Food & Dining", "grab food", 1.0)

	// "grab" matches Transport exactly (1.5) and is a substring of the
	// Food & Dining pattern (0.7).
	txn := testutil.NewTransaction("Grab", "", 2_000_000)
	pred, err := NewMatcher(store, nil).Classify(ctx, "u", txn)
	require.NoError(t, err)
	require.True(t, pred.IsPrediction)
	assert.Equal(t, "Transport", pred.Category)
	assert.InDelta(t, 1.5/(1.5+0.7), pred.Confidence, 1e-9)
}

func TestMatcher_StoreError(t *testing.T) {
	store := newFakeStore("Transport")
	store.listErr = errStoreDown

	pred, err := NewMatcher(store, nil).Classify(context.Background(), "u", testutil.NewTransaction("Grab", "", 1))
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, model.NoPrediction(), pred)
}

func TestMatcher_LearnedScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	learner := NewLearner(db.Storage, db.Storage, nil)
	matcher := NewMatcher(db.Storage, nil)

	seen := testutil.NewTransaction("Nguyen Van A", "Trà đá", 5000)
	for i := 0; i < 3; i++ {
		require.NoError(t, learner.Learn(ctx, db.UserID, "Food & Dining", seen))
	}

	next := testutil.NewTransaction("Nguyen Van A", "Trà đá", 7000)
	pred, err := matcher.Classify(ctx, db.UserID, next)
	require.NoError(t, err)
	assert.True(t, pred.IsPrediction)
	assert.Equal(t, "Food & Dining", pred.Category)
	assert.InDelta(t, 1.0, pred.Confidence, 1e-9)
	assert.Contains(t, pred.MatchedPatterns, "trà đá")
}

func TestMatcher_Suggest(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore("Health", "Shopping").
		withPattern("Transport", "grab", 1.0).
		withPattern("Food & Dining", "grab food", 1.0)

	suggestions, err := NewMatcher(store, nil).Suggest(ctx, "u", testutil.NewTransaction("Grab", "", 2_000_000), 3)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	assert.Equal(t, "Transport", suggestions[0].Category)
	assert.Equal(t, "Food & Dining", suggestions[1].Category)
	assert.Equal(t, "Health", suggestions[2].Category, "zero scores are ordered by name")
	assert.Zero(t, suggestions[2].Score)

	store.listErr = errStoreDown
	_, err = NewMatcher(store, nil).Suggest(ctx, "u", testutil.NewTransaction("Grab", "", 1), 3)
	assert.ErrorIs(t, err, errStoreDown)
}
