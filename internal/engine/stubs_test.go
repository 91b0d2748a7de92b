package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

var errBroken = errors.New("broken")

// stubMatcher returns a fixed prediction.
type stubMatcher struct {
	err  error
	pred model.Prediction
}

func (m stubMatcher) Classify(context.Context, string, model.Transaction) (model.Prediction, error) {
	return m.pred, m.err
}

// stubRules returns a fixed category.
type stubRules string

func (r stubRules) Classify(string, string) string { return string(r) }

// countingRemote records invocations and returns a fixed category.
type countingRemote struct {
	category string
	calls    int
	mu       sync.Mutex
}

func (r *countingRemote) Classify(context.Context, string, string, decimal.Decimal) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.category
}

func (r *countingRemote) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// failingTrainer always fails and records whether its context was live.
type failingTrainer struct {
	ctxErr error
	calls  int
}

func (t *failingTrainer) Learn(ctx context.Context, _, _ string, _ model.Transaction) error {
	t.calls++
	t.ctxErr = ctx.Err()
	return errBroken
}
