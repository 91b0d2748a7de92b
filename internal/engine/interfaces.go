package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// Matcher predicts categories from learned patterns.
type Matcher interface {
	Classify(ctx context.Context, userID string, txn model.Transaction) (model.Prediction, error)
}

// Trainer reinforces learned patterns from a categorized transaction.
type Trainer interface {
	Learn(ctx context.Context, userID, categoryName string, txn model.Transaction) error
}

// RuleClassifier assigns categories from static keyword rules, returning
// model.CategoryOther when no rule applies.
type RuleClassifier interface {
	Classify(beneficiaryName, remark string) string
}

// RemoteClassifier asks an external service for a category. It must always
// return a category, never an error.
type RemoteClassifier interface {
	Classify(ctx context.Context, beneficiaryName, remark string, amount decimal.Decimal) string
}
