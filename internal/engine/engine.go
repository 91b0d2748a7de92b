// Package engine implements the categorization pipeline: learned patterns,
// then static rules, then a remote classifier.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

// MinLearnedConfidence is the confidence a learned prediction must exceed
// to be used without consulting the rules.
const MinLearnedConfidence = 0.5

// transactionNamespace seeds deterministic transaction IDs.
var transactionNamespace = uuid.MustParse("6f1c1e7a-4f53-4d1a-9b9e-2d1f0c5a7e31")

// Engine orchestrates categorization and learning.
type Engine struct {
	store   service.TransactionStore
	matcher Matcher
	trainer Trainer
	rules   RuleClassifier
	remote  RemoteClassifier
	logger  *slog.Logger
}

// New creates a new engine. A nil remote classifier makes the last tier
// answer Transfer without any network call.
func New(store service.TransactionStore, matcher Matcher, trainer Trainer, rules RuleClassifier, remote RemoteClassifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		matcher: matcher,
		trainer: trainer,
		rules:   rules,
		remote:  remote,
		logger:  logger,
	}
}

// Categorize picks a category for txn. Learned patterns are used when they
// are confident; otherwise the first static rule that matches; otherwise
// the remote classifier. It always returns a category.
func (e *Engine) Categorize(ctx context.Context, userID string, txn model.Transaction) model.Categorization {
	pred, err := e.matcher.Classify(ctx, userID, txn)
	if err != nil {
		common.LogError(ctx, e.logger, err, "learned categorization failed", common.Fields{
			"user_id": userID,
			"txn_id":  txn.ID,
		})
	} else if pred.IsPrediction && pred.Confidence > MinLearnedConfidence {
		return model.Categorization{
			Category:   pred.Category,
			Source:     model.SourceLearned,
			Confidence: pred.Confidence,
		}
	}

	if category := e.rules.Classify(txn.BeneficiaryName, txn.Remark); category != model.CategoryOther {
		return model.Categorization{Category: category, Source: model.SourceRule}
	}

	category := model.CategoryTransfer
	if e.remote != nil {
		category = e.remote.Classify(ctx, txn.BeneficiaryName, txn.Remark, txn.Amount)
	}
	return model.Categorization{Category: category, Source: model.SourceRemote}
}

// Learn records that txn belongs to category. Learning is best-effort:
// failures are logged and never returned, and caller cancellation does not
// interrupt a learn that has started.
func (e *Engine) Learn(ctx context.Context, userID, category string, txn model.Transaction) {
	if e.trainer == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	if err := e.trainer.Learn(ctx, userID, category, txn); err != nil {
		e.logger.Warn("failed to learn from transaction",
			"user_id", userID,
			"category", category,
			"txn_id", txn.ID,
			"error", err)
	}
}

// IngestResult summarizes an Ingest call.
type IngestResult struct {
	BySource   map[model.Source]int
	Total      int
	Saved      int
	Duplicates int
}

// ProgressFunc is told how many of total transactions have been examined.
type ProgressFunc func(done, total int)

// Ingest categorizes and stores new transactions for the user. Transactions
// the user already has (same content hash) are skipped before any
// categorization work is done.
func (e *Engine) Ingest(ctx context.Context, userID string, txns []model.Transaction) (IngestResult, error) {
	return e.IngestWithProgress(ctx, userID, txns, nil)
}

// IngestWithProgress is Ingest reporting progress after each transaction.
func (e *Engine) IngestWithProgress(ctx context.Context, userID string, txns []model.Transaction, progress ProgressFunc) (IngestResult, error) {
	if progress == nil {
		progress = func(int, int) {}
	}

	result := IngestResult{
		Total:    len(txns),
		BySource: make(map[model.Source]int),
	}

	pending := make([]model.Transaction, 0, len(txns))
	seen := make(map[string]struct{}, len(txns))

	for i, txn := range txns {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		if i > 0 {
			progress(i, len(txns))
		}

		txn.UserID = userID
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		txn.ID = TransactionID(userID, txn.Hash)

		if _, dup := seen[txn.ID]; dup {
			result.Duplicates++
			continue
		}
		seen[txn.ID] = struct{}{}

		_, err := e.store.GetTransactionByID(ctx, userID, txn.ID)
		if err == nil {
			result.Duplicates++
			continue
		}
		if !errors.Is(err, common.ErrNotFound) {
			return result, fmt.Errorf("failed to check transaction %s: %w", txn.ID, err)
		}

		if strings.TrimSpace(txn.Category) == "" || txn.Category == model.CategoryOther {
			c := e.Categorize(ctx, userID, txn)
			txn.Category = c.Category
			result.BySource[c.Source]++
		}
		pending = append(pending, txn)
	}
	if len(txns) > 0 {
		progress(len(txns), len(txns))
	}

	if len(pending) == 0 {
		return result, nil
	}

	saved, err := e.store.SaveTransactions(ctx, pending)
	if err != nil {
		return result, fmt.Errorf("failed to save transactions: %w", err)
	}
	result.Saved = saved
	result.Duplicates += len(pending) - saved

	common.LogInfo(ctx, e.logger, "ingested transactions", common.Fields{
		"user_id":    userID,
		"total":      result.Total,
		"saved":      result.Saved,
		"duplicates": result.Duplicates,
	})
	return result, nil
}

// Relabel sets a transaction's category on the user's behalf and learns
// from the correction. A learning failure does not undo the update.
func (e *Engine) Relabel(ctx context.Context, userID, txnID, category string) (*model.Transaction, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, common.NewUserError("category cannot be empty", nil)
	}

	txn, err := e.store.GetTransactionByID(ctx, userID, txnID)
	if err != nil {
		return nil, err
	}

	if err := e.store.UpdateTransactionCategory(ctx, userID, txnID, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	txn.Category = category

	e.Learn(ctx, userID, category, *txn)
	return txn, nil
}

// TransactionID derives a stable transaction ID from the user and content hash.
func TransactionID(userID, hash string) string {
	return uuid.NewSHA1(transactionNamespace, []byte(userID+"\x00"+hash)).String()
}
