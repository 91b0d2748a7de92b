// Package pattern learns keyword patterns from categorized transactions and
// uses them to predict the category of new ones.
package pattern

import (
	"context"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// Classifier predicts a category from learned patterns.
type Classifier interface {
	// Classify returns a prediction for the transaction. A prediction with
	// IsPrediction false means the learned data was missing or inconclusive.
	Classify(ctx context.Context, userID string, txn model.Transaction) (model.Prediction, error)
}

// Trainer records that a transaction belongs to a category.
type Trainer interface {
	Learn(ctx context.Context, userID, categoryName string, txn model.Transaction) error
}
