package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

func TestUpsertPattern_Reinforcement(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat, err := store.GetCategoryByName(ctx, testUser, "Food & Dining")
	require.NoError(t, err)

	first, err := store.UpsertPattern(ctx, cat.ID, "tra da")
	require.NoError(t, err)
	assert.InDelta(t, model.InitialPatternWeight, first.Weight, 1e-9)
	assert.Equal(t, 1, first.Occurrences)

	prev := first
	for i := 2; i <= 5; i++ {
		p, err := store.UpsertPattern(ctx, cat.ID, "tra da")
		require.NoError(t, err)
		assert.Equal(t, first.ID, p.ID)
		assert.Equal(t, i, p.Occurrences)
		assert.InDelta(t, prev.Weight+model.PatternWeightStep, p.Weight, 1e-9)
		prev = p
	}
	assert.InDelta(t, 1.4, prev.Weight, 1e-9)
}

func TestUpsertPattern_Validation(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.UpsertPattern(ctx, 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = store.UpsertPattern(ctx, 0, "grab")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = store.UpsertPattern(ctx, 424242, "grab")
	assert.Error(t, err, "unknown category violates the foreign key")
}

func TestUpsertPattern_ConcurrentUpdatesNotLost(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	cat, err := store.GetCategoryByName(ctx, testUser, "Transport")
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.UpsertPattern(ctx, cat.ID, "grab"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	patterns, err := store.ListPatterns(ctx, testUser, &cat.ID)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, workers, patterns[0].Occurrences)
	assert.InDelta(t, 1.0+0.1*float64(workers-1), patterns[0].Weight, 1e-9)
}

func TestListPatterns(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	food, err := store.GetCategoryByName(ctx, testUser, "Food & Dining")
	require.NoError(t, err)
	transport, err := store.GetCategoryByName(ctx, testUser, "Transport")
	require.NoError(t, err)

	for _, kw := range []string{"pho", "pho", "pho", "bun"} {
		_, err := store.UpsertPattern(ctx, food.ID, kw)
		require.NoError(t, err)
	}
	_, err = store.UpsertPattern(ctx, transport.ID, "grab")
	require.NoError(t, err)

	all, err := store.ListPatterns(ctx, testUser, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "pho", all[0].Keyword, "heaviest pattern first")
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Weight, all[i].Weight)
	}

	onlyTransport, err := store.ListPatterns(ctx, testUser, &transport.ID)
	require.NoError(t, err)
	require.Len(t, onlyTransport, 1)
	assert.Equal(t, "grab", onlyTransport[0].Keyword)

	others, err := store.ListPatterns(ctx, "someone-else", nil)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestListCategoryPatterns(t *testing.T) {
	store, cleanup := createSeededStorage(t)
	defer cleanup()
	ctx := context.Background()

	grouped, err := store.ListCategoryPatterns(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, grouped, len(model.DefaultCategories()))
	for _, cp := range grouped {
		assert.Empty(t, cp.Patterns)
	}

	health, err := store.GetCategoryByName(ctx, testUser, "Health")
	require.NoError(t, err)
	_, err = store.UpsertPattern(ctx, health.ID, "pharmacity")
	require.NoError(t, err)

	grouped, err = store.ListCategoryPatterns(ctx, testUser)
	require.NoError(t, err)
	for _, cp := range grouped {
		if cp.Category.Name == "Health" {
			require.Len(t, cp.Patterns, 1)
			assert.Equal(t, "pharmacity", cp.Patterns[0].Keyword)
		} else {
			assert.Empty(t, cp.Patterns, cp.Category.Name)
		}
	}
}
