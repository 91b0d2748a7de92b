package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

// MinPredictionScore is the raw score the best category must exceed before
// the matcher commits to a prediction.
const MinPredictionScore = 0.5

// Matcher scores transactions against the user's learned patterns.
type Matcher struct {
	store  service.PatternStore
	logger *slog.Logger
}

// NewMatcher creates a matcher reading patterns from store.
func NewMatcher(store service.PatternStore, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{store: store, logger: logger}
}

// Classify predicts the transaction's category from learned patterns.
// Without any learned pattern, or when the best category does not exceed
// MinPredictionScore, it returns model.NoPrediction.
func (m *Matcher) Classify(ctx context.Context, userID string, txn model.Transaction) (model.Prediction, error) {
	scores, learned, err := m.score(ctx, userID, txn)
	if err != nil {
		return model.NoPrediction(), err
	}
	if !learned {
		return model.NoPrediction(), nil
	}

	top := scores.Top()
	if top == nil || top.Score <= MinPredictionScore {
		common.LogDebug(ctx, m.logger, "learned patterns inconclusive", common.Fields{
			"user_id": userID,
			"txn_id":  txn.ID,
		})
		return model.NoPrediction(), nil
	}

	confidence := math.Min(top.Score/math.Max(scores.Total(), 1), 1)

	return model.Prediction{
		Category:        top.Category,
		Confidence:      confidence,
		IsPrediction:    true,
		MatchedPatterns: top.MatchedPatterns,
	}, nil
}

// Suggest ranks the user's categories for the transaction, best first.
// Categories without any matching pattern are included with a zero score.
func (m *Matcher) Suggest(ctx context.Context, userID string, txn model.Transaction, limit int) (model.CategoryScores, error) {
	scores, _, err := m.score(ctx, userID, txn)
	if err != nil {
		return nil, err
	}
	return scores.TopN(limit), nil
}

// score sums pattern matches per category. learned reports whether the user
// has any pattern at all.
func (m *Matcher) score(ctx context.Context, userID string, txn model.Transaction) (model.CategoryScores, bool, error) {
	groups, err := m.store.ListCategoryPatterns(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load patterns: %w", err)
	}

	keywords := ExtractKeywords(txn)
	learned := false
	scores := make(model.CategoryScores, 0, len(groups))

	for _, group := range groups {
		cs := model.CategoryScore{Category: group.Category.Name}
		for _, p := range group.Patterns {
			learned = true
			if s := MatchScore(keywords, p.Keyword, p.Weight); s > 0 {
				cs.Score += s
				cs.MatchedPatterns = append(cs.MatchedPatterns, p.Keyword)
			}
		}
		scores = append(scores, cs)
	}

	scores.Sort()
	return scores, learned, nil
}
