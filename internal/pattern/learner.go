package pattern

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

// Learner turns a categorized transaction into reinforced patterns.
type Learner struct {
	categories service.CategoryDirectory
	patterns   service.PatternStore
	logger     *slog.Logger
}

// NewLearner creates a learner backed by the given stores.
func NewLearner(categories service.CategoryDirectory, patterns service.PatternStore, logger *slog.Logger) *Learner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Learner{
		categories: categories,
		patterns:   patterns,
		logger:     logger,
	}
}

// Learn associates every keyword of txn with the named category, creating
// the category if the user does not have it yet. Keywords learned before a
// failure stay learned; the first error is returned.
func (l *Learner) Learn(ctx context.Context, userID, categoryName string, txn model.Transaction) error {
	category, err := l.categories.FindOrCreateCategory(ctx, userID, categoryName)
	if err != nil {
		return fmt.Errorf("failed to resolve category %q: %w", categoryName, err)
	}

	keywords := ExtractKeywords(txn)
	for _, kw := range keywords {
		if _, err := l.patterns.UpsertPattern(ctx, category.ID, kw); err != nil {
			return fmt.Errorf("failed to learn keyword %q: %w", kw, err)
		}
	}

	common.LogDebug(ctx, l.logger, "learned patterns", common.Fields{
		"user_id":  userID,
		"category": category.Name,
		"keywords": len(keywords),
	})
	return nil
}
